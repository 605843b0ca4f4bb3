package directory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Matricula-api/internal/application/dto"
	"github.com/jhoicas/Matricula-api/internal/domain"
)

func TestSchoolCreate_EmailUnico(t *testing.T) {
	h := newDirectoryHarness()

	first, err := h.schoolUC.Create(dto.CreateSchoolRequest{
		Name:  "Colegio San José",
		Email: "admin@sanjose.edu.co",
	})
	require.NoError(t, err)
	assert.True(t, first.IsActive, "el colegio nace activo")

	_, err = h.schoolUC.Create(dto.CreateSchoolRequest{
		Name:  "Otro Colegio",
		Email: "admin@sanjose.edu.co",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = h.schoolUC.Create(dto.CreateSchoolRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre requerido")
}

func TestSchoolList_FiltraInactivos(t *testing.T) {
	h := newDirectoryHarness()
	h.seedSchool("Colegio A", true)
	h.seedSchool("Colegio B", false)

	todos, err := h.schoolUC.List(dto.PageRequest{}, false)
	require.NoError(t, err)
	assert.Len(t, todos, 2)

	activos, err := h.schoolUC.List(dto.PageRequest{}, true)
	require.NoError(t, err)
	require.Len(t, activos, 1)
	assert.Equal(t, "Colegio A", activos[0].Name)
}

func TestSchoolDeactivate_NoBorraNada(t *testing.T) {
	h := newDirectoryHarness()
	school := h.seedSchool("Colegio San José", true)
	h.seedStudent(school.ID, "EST-0001", "María", "Gómez")

	got, err := h.schoolUC.Deactivate(school.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// Sus estudiantes siguen ahí
	students, err := h.studentUC.ListBySchool(school.ID, dto.PageRequest{}, false)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestSchoolDelete_ConEstudiantesSeRechaza(t *testing.T) {
	h := newDirectoryHarness()
	conAlumnos := h.seedSchool("Colegio San José", true)
	h.seedStudent(conAlumnos.ID, "EST-0001", "María", "Gómez")
	vacio := h.seedSchool("Colegio Nuevo", true)

	err := h.schoolUC.Delete(conAlumnos.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "con estudiantes se desactiva, no se borra")

	require.NoError(t, h.schoolUC.Delete(vacio.ID))
	_, err = h.schoolUC.GetByID(vacio.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSchoolUpdate_NombreNoQuedaVacio(t *testing.T) {
	h := newDirectoryHarness()
	school := h.seedSchool("Colegio San José", true)

	vacio := "  "
	_, err := h.schoolUC.Update(school.ID, dto.UpdateSchoolRequest{Name: &vacio})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	nuevo := "Colegio San José Norte"
	got, err := h.schoolUC.Update(school.ID, dto.UpdateSchoolRequest{Name: &nuevo})
	require.NoError(t, err)
	assert.Equal(t, nuevo, got.Name)
}
