package fd

import "testing"

func TestBoolDomain_HasBothValues(t *testing.T) {
	d := BoolDomain()
	if !d.Has(1) || !d.Has(2) {
		t.Fatalf("expected BoolDomain to contain both 1 (false) and 2 (true), got %s", d.String())
	}
	if d.Count() != 2 {
		t.Fatalf("expected Count()==2, got %d", d.Count())
	}
}

func TestBitSetDomain_RemoveAndSingleton(t *testing.T) {
	d := BoolDomain()
	narrowed := d.Remove(1)
	if !narrowed.IsSingleton() {
		t.Fatalf("expected singleton after removing one of two values")
	}
	if narrowed.SingletonValue() != 2 {
		t.Fatalf("expected singleton value 2, got %d", narrowed.SingletonValue())
	}
}

func TestBitSetDomain_IntersectUnionComplement(t *testing.T) {
	a := NewBitSetDomainFromValues(5, []int{1, 2, 3})
	b := NewBitSetDomainFromValues(5, []int{2, 3, 4})

	inter := a.Intersect(b)
	if inter.Count() != 2 || !inter.Has(2) || !inter.Has(3) {
		t.Fatalf("unexpected intersection: %s", inter.String())
	}

	union := a.Union(b)
	if union.Count() != 4 {
		t.Fatalf("unexpected union size: %d", union.Count())
	}

	comp := a.Complement()
	if comp.Has(1) || comp.Has(2) || comp.Has(3) || !comp.Has(4) || !comp.Has(5) {
		t.Fatalf("unexpected complement: %s", comp.String())
	}
}

func TestBitSetDomain_RemoveRangeHelpers(t *testing.T) {
	d := NewBitSetDomain(5)

	if got := d.RemoveAbove(3); got.Max() != 3 || got.Min() != 1 {
		t.Fatalf("RemoveAbove(3): got min=%d max=%d", got.Min(), got.Max())
	}
	if got := d.RemoveBelow(3); got.Min() != 3 || got.Max() != 5 {
		t.Fatalf("RemoveBelow(3): got min=%d max=%d", got.Min(), got.Max())
	}
	if got := d.RemoveAtOrAbove(3); got.Max() != 2 {
		t.Fatalf("RemoveAtOrAbove(3): got max=%d", got.Max())
	}
	if got := d.RemoveAtOrBelow(3); got.Min() != 4 {
		t.Fatalf("RemoveAtOrBelow(3): got min=%d", got.Min())
	}
}

func TestBitSetDomain_Equal(t *testing.T) {
	a := NewBitSetDomainFromValues(5, []int{1, 3})
	b := NewBitSetDomainFromValues(5, []int{1, 3})
	c := NewBitSetDomainFromValues(5, []int{1, 4})

	if !a.Equal(b) {
		t.Fatalf("expected a.Equal(b)")
	}
	if a.Equal(c) {
		t.Fatalf("expected !a.Equal(c)")
	}
}
