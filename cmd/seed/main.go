// seed genera un script SQL para poblar colegios y estudiantes a partir del
// CSV de matrícula que exportan las secretarías (separado por punto y coma,
// codificado en ISO-8859-1, como lo producen sus sistemas académicos).
//
// Uso: go run ./cmd/seed [ruta/matricula.csv]
// Por defecto busca matricula.csv en el directorio actual.
// Escribe: scripts/seed_roster.sql
//
// Columnas esperadas: colegio;email_colegio;codigo;nombres;apellidos;email
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type rosterRow struct {
	schoolName  string
	schoolEmail string
	studentCode string
	firstName   string
	lastName    string
	email       string
}

func main() {
	csvPath := "matricula.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Los exports académicos llegan en ISO-8859-1 (tildes y eñes incluidas)
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = 6

	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	// Colegios únicos por email; estudiantes en orden de aparición
	schoolMap := make(map[string]string) // email -> nombre
	var students []rosterRow
	for i, rec := range records {
		if i == 0 && strings.EqualFold(rec[2], "codigo") {
			continue // fila de encabezado
		}
		row := rosterRow{
			schoolName:  strings.TrimSpace(rec[0]),
			schoolEmail: strings.ToLower(strings.TrimSpace(rec[1])),
			studentCode: strings.TrimSpace(rec[2]),
			firstName:   strings.TrimSpace(rec[3]),
			lastName:    strings.TrimSpace(rec[4]),
			email:       strings.ToLower(strings.TrimSpace(rec[5])),
		}
		if row.schoolName == "" || row.schoolEmail == "" || row.studentCode == "" || row.firstName == "" {
			continue
		}
		schoolMap[row.schoolEmail] = row.schoolName
		students = append(students, row)
	}

	// Ordenar colegios por email para salida estable
	var schoolEmails []string
	for e := range schoolMap {
		schoolEmails = append(schoolEmails, e)
	}
	sort.Strings(schoolEmails)

	moduleRoot := findModuleRoot()
	outDir := filepath.Join(moduleRoot, "scripts")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	outPath := filepath.Join(outDir, "seed_roster.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Colegios y estudiantes de matrícula\n")
	out.WriteString("-- Generado desde el export CSV de secretaría\n\n")

	out.WriteString("-- 1. Colegios\n")
	out.WriteString("INSERT INTO schools (name, email, is_active) VALUES\n")
	for i, e := range schoolEmails {
		name := escapeSQL(schoolMap[e])
		if i < len(schoolEmails)-1 {
			fmt.Fprintf(out, "  ('%s', '%s', true),\n", name, escapeSQL(e))
		} else {
			fmt.Fprintf(out, "  ('%s', '%s', true)\n", name, escapeSQL(e))
		}
	}
	out.WriteString("ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name;\n\n")

	// 2. Estudiantes con subquery al colegio
	out.WriteString("-- 2. Estudiantes (código de matrícula único)\n")
	for _, s := range students {
		fmt.Fprintf(out, "INSERT INTO students (school_id, student_code, first_name, last_name, email, is_active)\n")
		fmt.Fprintf(out, "SELECT id, '%s', '%s', '%s', %s, true FROM schools WHERE email = '%s'\n",
			escapeSQL(s.studentCode), escapeSQL(s.firstName), escapeSQL(s.lastName),
			sqlNullable(s.email), escapeSQL(s.schoolEmail))
		out.WriteString("ON CONFLICT (student_code) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name;\n")
	}

	fmt.Printf("Generado %s: %d colegios, %d estudiantes\n", outPath, len(schoolEmails), len(students))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// sqlNullable devuelve el literal SQL del email, o NULL si viene vacío.
func sqlNullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
