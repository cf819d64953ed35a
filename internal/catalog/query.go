package catalog

import (
	"fmt"

	internaldb "github.com/modelmirror/modelmirror/internal/db"
	"gorm.io/gorm"
)

// Price dimension selectors recognized by the query builder. Any other
// value falls back to the prompt dimension.
const (
	PriceTypePrompt     = "prompt"
	PriceTypeCompletion = "completion"
)

// Filter holds the optional search criteria for the catalog.
//
// Every field is independent; unset fields add no predicate. A nil
// inclusivity flag means inclusive, which is the documented default for
// both price bounds. MinContextLength of zero means no filter.
type Filter struct {
	Company           string
	InputModality     string
	OutputModality    string
	IsFree            *bool
	NameLike          string
	MinContextLength  int
	PriceType         string
	MinPrice          *float64
	MaxPrice          *float64
	MinPriceInclusive *bool
	MaxPriceInclusive *bool
}

// Join identifiers used by the query planner.
const (
	joinInputModalities  = "input_modalities"
	joinOutputModalities = "output_modalities"
)

// joinClauses maps join identifiers to their SQL fragments.
var joinClauses = map[string]string{
	joinInputModalities:  "JOIN input_modalities im ON im.model_id = m.id",
	joinOutputModalities: "JOIN output_modalities om ON om.model_id = m.id",
}

// joinOrder renders required joins deterministically.
var joinOrder = []string{joinInputModalities, joinOutputModalities}

// freePriceColumns are the price dimensions the free/non-free filter spans.
var freePriceColumns = []string{"p.prompt", "p.completion", "p.request", "p.image"}

// predicate is one bound WHERE condition.
type predicate struct {
	expr string
	args []any
}

// queryPlan collects required joins and predicates for one filter request.
type queryPlan struct {
	joins map[string]struct{}
	preds []predicate
}

func (p *queryPlan) requireJoin(name string) {
	if p.joins == nil {
		p.joins = make(map[string]struct{})
	}
	p.joins[name] = struct{}{}
}

func (p *queryPlan) where(expr string, args ...any) {
	p.preds = append(p.preds, predicate{expr: expr, args: args})
}

// planSearch translates a filter into joins and predicates.
func planSearch(conn *gorm.DB, filter Filter) queryPlan {
	var plan queryPlan

	if filter.Company != "" {
		plan.where("m.company = ?", filter.Company)
	}
	if filter.InputModality != "" {
		plan.requireJoin(joinInputModalities)
		plan.where("im.modality = ?", filter.InputModality)
	}
	if filter.OutputModality != "" {
		plan.requireJoin(joinOutputModalities)
		plan.where("om.modality = ?", filter.OutputModality)
	}
	if filter.IsFree != nil {
		if *filter.IsFree {
			plan.where(allFreeExpr())
		} else {
			plan.where(anyPaidExpr())
		}
	}
	if filter.NameLike != "" {
		pattern := internaldb.NormalizeLikePattern(conn, "%"+filter.NameLike+"%")
		plan.where(internaldb.CaseInsensitiveLikeExpr(conn, "m.name"), pattern)
	}
	if filter.MinContextLength > 0 {
		plan.where("m.context_length >= ?", filter.MinContextLength)
	}
	// A price bound only makes sense against an existing pricing row: the
	// zero-coercion of NULL/''/'0'/'0.0' applies to values within a row,
	// not to entries that never reported pricing at all.
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		plan.where("p.model_id IS NOT NULL")
	}
	if filter.MinPrice != nil {
		op := ">="
		if !inclusive(filter.MinPriceInclusive) {
			op = ">"
		}
		plan.where(fmt.Sprintf("%s %s ?", normalizedPriceExpr(priceColumn(filter.PriceType)), op), *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		op := "<="
		if !inclusive(filter.MaxPriceInclusive) {
			op = "<"
		}
		plan.where(fmt.Sprintf("%s %s ?", normalizedPriceExpr(priceColumn(filter.PriceType)), op), *filter.MaxPrice)
	}

	return plan
}

// buildSearchQuery renders the plan onto a gorm query.
//
// The pricing join is always present because the base projection carries
// prompt and completion prices; modality joins are added only on demand.
func buildSearchQuery(conn *gorm.DB, filter Filter) *gorm.DB {
	plan := planSearch(conn, filter)

	tx := conn.Table("models m").
		Select("m.*, p.prompt AS prompt_price, p.completion AS completion_price").
		Joins("LEFT JOIN pricings p ON p.model_id = m.id")

	for _, name := range joinOrder {
		if _, ok := plan.joins[name]; ok {
			tx = tx.Joins(joinClauses[name])
		}
	}
	for _, pred := range plan.preds {
		tx = tx.Where(pred.expr, pred.args...)
	}

	return tx.Order("m.id ASC")
}

// zeroEquivalentExpr matches prices that count as free: NULL, empty,
// "0", or "0.0".
func zeroEquivalentExpr(column string) string {
	return fmt.Sprintf("(%s IS NULL OR %s IN ('', '0', '0.0'))", column, column)
}

// nonZeroExpr matches prices with a present, non-zero value.
func nonZeroExpr(column string) string {
	return fmt.Sprintf("(%s IS NOT NULL AND %s NOT IN ('', '0', '0.0'))", column, column)
}

// allFreeExpr matches entries whose every price dimension is free.
func allFreeExpr() string {
	expr := ""
	for i, column := range freePriceColumns {
		if i > 0 {
			expr += " AND "
		}
		expr += zeroEquivalentExpr(column)
	}
	return "(" + expr + ")"
}

// anyPaidExpr matches entries with at least one non-zero price dimension.
func anyPaidExpr() string {
	expr := ""
	for i, column := range freePriceColumns {
		if i > 0 {
			expr += " OR "
		}
		expr += nonZeroExpr(column)
	}
	return "(" + expr + ")"
}

// normalizedPriceExpr converts a stored per-token price string into a
// per-million-token number, coercing free values to zero.
func normalizedPriceExpr(column string) string {
	return fmt.Sprintf(
		"(CASE WHEN %s THEN 0 ELSE CAST(%s AS REAL) END) * 1000000",
		zeroEquivalentExpr(column), column,
	)
}

// priceColumn selects the price column for a dimension selector.
func priceColumn(priceType string) string {
	if priceType == PriceTypeCompletion {
		return "p.completion"
	}
	return "p.prompt"
}

// inclusive interprets a bound inclusivity flag, defaulting to inclusive.
func inclusive(flag *bool) bool {
	return flag == nil || *flag
}
