package app

import (
	"fmt"
	"io"
	"strings"
)

// renderResult writes the human-readable report to w. This output is for
// people; the machine-readable result is the persisted JSON file.
func renderResult(w io.Writer, res *Result) {
	if res == nil || (res.General == nil && res.RUT == nil) {
		fmt.Fprintln(w, "No hay datos para mostrar")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "           RESULTADOS DE EXTRACCIÓN DE DATOS")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	if res.General != nil {
		renderGeneral(w, res)
		return
	}
	renderRUT(w, res)
}

func renderGeneral(w io.Writer, res *Result) {
	doc := res.General

	if len(doc.Rectangulos) > 0 {
		fmt.Fprintf(w, "\nRECTÁNGULOS CON INFORMACIÓN (%d):\n", len(doc.Rectangulos))
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for i, r := range doc.Rectangulos {
			fmt.Fprintf(w, "\n%d. CATEGORÍA: %s\n", i+1, r.Categoria)
			fmt.Fprintf(w, "   INFORMACIÓN: %s\n", r.Informacion)
		}
	}

	if len(doc.Externa) > 0 {
		fmt.Fprintf(w, "\nINFORMACIÓN EXTERNA (%d):\n", len(doc.Externa))
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for i, info := range doc.Externa {
			fmt.Fprintf(w, "%d. %s\n", i+1, info)
		}
	}

	extras := []struct {
		title string
		items []string
	}{
		{"NOMBRES MENCIONADOS", doc.Adicionales.Nombres},
		{"DIRECCIONES", doc.Adicionales.Direcciones},
		{"TELÉFONOS", doc.Adicionales.Telefonos},
		{"EMAILS", doc.Adicionales.Emails},
		{"FECHAS", doc.Adicionales.Fechas},
	}
	printedHeader := false
	for _, e := range extras {
		if len(e.items) == 0 {
			continue
		}
		if !printedHeader {
			fmt.Fprintln(w, "\nDATOS ADICIONALES:")
			fmt.Fprintln(w, strings.Repeat("-", 40))
			printedHeader = true
		}
		fmt.Fprintf(w, "\n%s: %d\n", e.title, len(e.items))
		for _, item := range e.items {
			fmt.Fprintf(w, "   • %s\n", item)
		}
	}
}

func renderRUT(w io.Writer, res *Result) {
	doc := res.RUT
	fields := []struct {
		label string
		value string
	}{
		{"NIT", doc.NIT},
		{"DV", doc.DV},
		{"Razón social", doc.RazonSocial},
		{"Primer apellido", doc.PrimerApellido},
		{"Segundo apellido", doc.SegundoApellido},
		{"Primer nombre", doc.PrimerNombre},
		{"Otros nombres", doc.OtrosNombres},
		{"Dirección principal", doc.DireccionPrincipal},
		{"Municipio", doc.Municipio},
		{"Departamento", doc.Departamento},
		{"Correo electrónico", doc.CorreoElectronico},
		{"Teléfono", doc.Telefono1},
		{"Fecha de inscripción", doc.FechaInscripcion},
		{"Actividad económica principal", doc.ActividadPrincipal},
	}
	fmt.Fprintln(w)
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", f.label, f.value)
	}
	if len(doc.ActividadesSecundarias) > 0 {
		fmt.Fprintf(w, "\nActividades secundarias (%d):\n", len(doc.ActividadesSecundarias))
		for _, a := range doc.ActividadesSecundarias {
			fmt.Fprintf(w, "   • %s\n", a)
		}
	}
	if len(doc.Responsabilidades) > 0 {
		fmt.Fprintf(w, "\nResponsabilidades (%d):\n", len(doc.Responsabilidades))
		for _, r := range doc.Responsabilidades {
			fmt.Fprintf(w, "   • %s\n", r)
		}
	}
}

// FailureChecklist lists the likely causes of a failed run, printed by the
// CLI entry point after a pipeline error.
func FailureChecklist(w io.Writer) {
	fmt.Fprintln(w, "No se pudieron extraer datos del documento. Posibles causas:")
	fmt.Fprintln(w, "   - El PDF está corrupto o protegido")
	fmt.Fprintln(w, "   - El PDF es una imagen escaneada (se necesitaría OCR, no soportado)")
	fmt.Fprintln(w, "   - Problemas de conexión con el servicio de IA")
	fmt.Fprintln(w, "   - El documento no tiene el formato esperado")
}
