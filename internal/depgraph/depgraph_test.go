package depgraph

import (
	"testing"

	"github.com/Pragadeesh-19/replidb/internal/errs"
	"github.com/Pragadeesh-19/replidb/internal/schema"
)

func tbl(name string, fks ...schema.ForeignKey) *schema.Table {
	return &schema.Table{Name: name, ForeignKeys: fks}
}

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestResolveLinearChain(t *testing.T) {
	tables := map[string]*schema.Table{
		"users":  tbl("users"),
		"orders": tbl("orders", schema.ForeignKey{SourceColumn: "user_id", TargetTable: "users", TargetColumn: "id"}),
		"items":  tbl("items", schema.ForeignKey{SourceColumn: "order_id", TargetTable: "orders", TargetColumn: "id"}),
	}

	order, err := Resolve(tables)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("len(order) = %d, want 3", len(order))
	}
	if indexOf(order, "users") >= indexOf(order, "orders") {
		t.Errorf("users must precede orders, got %v", order)
	}
	if indexOf(order, "orders") >= indexOf(order, "items") {
		t.Errorf("orders must precede items, got %v", order)
	}
}

func TestResolveIsDeterministicAcrossCalls(t *testing.T) {
	tables := map[string]*schema.Table{
		"a": tbl("a"),
		"b": tbl("b"),
		"c": tbl("c", schema.ForeignKey{SourceColumn: "a_id", TargetTable: "a", TargetColumn: "id"}),
		"d": tbl("d", schema.ForeignKey{SourceColumn: "a_id", TargetTable: "a", TargetColumn: "id"}),
	}

	first, err := Resolve(tables)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Resolve(tables)
		if err != nil {
			t.Fatalf("Resolve() error on rerun: %v", err)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("Resolve() not deterministic: %v vs %v", first, again)
			}
		}
	}
}

func TestResolveCycleFails(t *testing.T) {
	tables := map[string]*schema.Table{
		"a": tbl("a", schema.ForeignKey{SourceColumn: "b_id", TargetTable: "b", TargetColumn: "id"}),
		"b": tbl("b", schema.ForeignKey{SourceColumn: "a_id", TargetTable: "a", TargetColumn: "id"}),
	}

	_, err := Resolve(tables)
	if err == nil {
		t.Fatal("expected CircularDependencyError, got nil")
	}
	var cycleErr *errs.CircularDependencyError
	if !errorsAsCircular(err, &cycleErr) {
		t.Fatalf("error is not a CircularDependencyError: %v", err)
	}
}

func TestResolveSelfReferenceIsNotACycle(t *testing.T) {
	tables := map[string]*schema.Table{
		"employees": tbl("employees", schema.ForeignKey{SourceColumn: "manager_id", TargetTable: "employees", TargetColumn: "id"}),
	}

	order, err := Resolve(tables)
	if err != nil {
		t.Fatalf("self-referencing FK should not be treated as a cycle: %v", err)
	}
	if len(order) != 1 || order[0] != "employees" {
		t.Fatalf("order = %v, want [employees]", order)
	}
}

func errorsAsCircular(err error, target **errs.CircularDependencyError) bool {
	if ce, ok := err.(*errs.CircularDependencyError); ok {
		*target = ce
		return true
	}
	return false
}
