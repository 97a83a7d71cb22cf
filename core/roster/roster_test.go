package roster

import "testing"

func TestDefaultRosterUniqueIDs(t *testing.T) {
	r := Default()
	if len(r.Helpers) != 12 || len(r.Houses) != 5 || len(r.Laundries) != 6 || len(r.Vehicles) != 8 {
		t.Fatalf("unexpected roster sizes")
	}
	seen := map[string]bool{}
	check := func(id string) {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	for _, h := range r.Helpers {
		check(h.ID)
	}
	for _, h := range r.Houses {
		check(h.ID)
	}
	for _, l := range r.Laundries {
		check(l.ID)
	}
	for _, v := range r.Vehicles {
		check(v.ID)
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	a := Default()
	a.Helpers[0].ID = "changed"
	if Default().Helpers[0].ID != "helper_01" {
		t.Fatalf("Default must not share state")
	}
}
