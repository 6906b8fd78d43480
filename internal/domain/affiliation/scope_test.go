package affiliation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Freight-api/internal/domain/affiliation"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func TestVisible(t *testing.T) {
	nle := affiliation.Viewer{CompanyID: "c-1", Affiliation: entity.AffiliationNLE}
	dummy := affiliation.Viewer{CompanyID: "c-2", Affiliation: entity.AffiliationDummy}

	// Propio
	assert.True(t, affiliation.Visible(strPtr("c-1"), "", nle))
	// De otra empresa, aunque tenga el mismo tag
	assert.False(t, affiliation.Visible(strPtr("c-2"), entity.AffiliationNLE, nle))
	// Compartido global
	assert.True(t, affiliation.Visible(nil, "", nle))
	assert.True(t, affiliation.Visible(nil, "", dummy))
	// Compartido por afiliación
	assert.True(t, affiliation.Visible(nil, entity.AffiliationNLE, nle))
	assert.False(t, affiliation.Visible(nil, entity.AffiliationNLE, dummy))
	assert.True(t, affiliation.Visible(nil, entity.AffiliationDummy, dummy))
}

func TestSQLScope_Numeracion(t *testing.T) {
	clause, args := affiliation.SQLScope("pc", 3, affiliation.Viewer{CompanyID: "c-1", Affiliation: "NLE"})
	assert.Equal(t,
		"(pc.owner_company_id = $3 OR (pc.owner_company_id IS NULL AND (pc.affiliation = '' OR pc.affiliation = $4)))",
		clause,
	)
	assert.Equal(t, []any{"c-1", "NLE"}, args)

	clause, _ = affiliation.SQLScope("", 1, affiliation.Viewer{})
	assert.Contains(t, clause, "(owner_company_id = $1")
}
