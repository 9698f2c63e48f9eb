package classifier

import (
	"fmt"
	"strings"

	"github.com/sandalio7/Serena/internal/taxonomy"
)

// BuildPrompt renders the fixed classification instruction for one caregiver
// message, embedding the taxonomy so the model can only answer within it.
func BuildPrompt(messageText string) string {
	var b strings.Builder

	b.WriteString("Actúa como un sistema de clasificación de mensajes para cuidadores de personas mayores o con condiciones neurodegenerativas.\n\n")
	b.WriteString("Analiza el siguiente mensaje y extrae información estructurada según estas categorías:\n\n")

	for i, cat := range taxonomy.Definition() {
		fmt.Fprintf(&b, "%d. %s:\n", i+1, cat.Name)
		for _, sub := range cat.Subcategories {
			fmt.Fprintf(&b, "   - %s (%s)\n", sub.Name, sub.Description)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Mensaje del cuidador:\n%q\n\n", messageText)

	b.WriteString(`Devuelve SOLO un objeto JSON con esta estructura, sin explicaciones adicionales:
{
    "categorias": [
        {
            "nombre": "Salud Física",
            "detectada": true/false,
            "subcategorias": [
                {
                    "nombre": "Movilidad",
                    "detectada": true/false,
                    "valor": "texto extraído",
                    "confianza": 0.9
                }
            ]
        }
    ],
    "resumen": "Breve resumen del estado general del paciente basado en el mensaje"
}`)

	return b.String()
}
