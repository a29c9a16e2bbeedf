package lineage

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// SplitConjuncts decomposes a compound boolean predicate into its
// atomic AND conjuncts, depth-first and left-to-right. The postgres
// tree flattens AND chains into n-ary nodes, so one AND may carry any
// number of arguments, each of which may itself be a nested AND. OR,
// NOT, comparisons, and function calls are never split further.
func SplitConjuncts(expr *pg_query.Node) []*pg_query.Node {
	if expr == nil {
		return nil
	}
	if be := expr.GetBoolExpr(); be != nil && be.Boolop == pg_query.BoolExprType_AND_EXPR {
		var conjuncts []*pg_query.Node
		for _, arg := range be.Args {
			conjuncts = append(conjuncts, SplitConjuncts(arg)...)
		}
		return conjuncts
	}
	return []*pg_query.Node{expr}
}
