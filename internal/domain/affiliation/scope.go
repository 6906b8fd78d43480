// Package affiliation decide qué datos compartidos ve cada tenant.
//
// Un registro es visible para una empresa si le pertenece, o si es compartido
// (sin dueño) y su tag de afiliación está vacío o coincide con el de la empresa.
// Así las cuentas DUMMY ven el catálogo de prueba y las NLE sus tarifas de red.
package affiliation

import (
	"fmt"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// Viewer es lo mínimo que se necesita de la empresa que consulta.
type Viewer struct {
	CompanyID   string
	Affiliation string
}

// ViewerOf construye el Viewer a partir de la empresa.
func ViewerOf(c *entity.Company) Viewer {
	return Viewer{CompanyID: c.ID, Affiliation: c.Affiliation}
}

// Visible aplica la regla de visibilidad sobre un registro.
func Visible(ownerCompanyID *string, tag string, v Viewer) bool {
	if ownerCompanyID != nil {
		return *ownerCompanyID == v.CompanyID
	}
	return tag == "" || tag == v.Affiliation
}

// SQLScope devuelve el predicado SQL equivalente a Visible para la tabla con alias
// dado. Los parámetros se numeran desde argPos ($argPos, $argPos+1).
func SQLScope(alias string, argPos int, v Viewer) (string, []any) {
	p := ""
	if alias != "" {
		p = alias + "."
	}
	clause := fmt.Sprintf(
		"(%[1]sowner_company_id = $%[2]d OR (%[1]sowner_company_id IS NULL AND (%[1]saffiliation = '' OR %[1]saffiliation = $%[3]d)))",
		p, argPos, argPos+1,
	)
	return clause, []any{v.CompanyID, v.Affiliation}
}
