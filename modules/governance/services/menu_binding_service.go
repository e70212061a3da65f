package services

import (
	"context"
	"encoding/json"
	"sort"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/iota-uz/governance/modules/governance/domain/changerequest"
	"github.com/iota-uz/governance/modules/governance/domain/portalmenu"
)

const menuTargetKind = "PORTAL_MENU"

// MenuBindingService compares portal menu binding snapshots and turns a
// non-empty diff into a single batch change request. Binding sets compare
// order-insensitively; a menu present on only one side counts as changed
// against an empty set.
type MenuBindingService struct {
	repo portalmenu.Repository
	crs  *ChangeRequestService
}

func NewMenuBindingService(repo portalmenu.Repository, crs *ChangeRequestService) *MenuBindingService {
	s := &MenuBindingService{repo: repo, crs: crs}
	if crs != nil {
		crs.RegisterApplier(menuTargetKind, s.applyBatch)
	}
	return s
}

// Diff lists every menu whose binding set differs between the two
// snapshots, ordered by menu id. Menus flagged deleted on either side are
// skipped: a disabled menu cannot be bound or unbound. Before and After in
// each change are sorted copies.
func Diff(before, after []*portalmenu.Menu) []portalmenu.BindingChange {
	type side struct {
		name     string
		bindings []string
	}
	index := map[string]*struct{ before, after *side }{}
	deleted := map[string]bool{}
	for _, m := range before {
		if m.Deleted {
			deleted[m.ID] = true
			continue
		}
		index[m.ID] = &struct{ before, after *side }{before: &side{name: m.Name, bindings: m.Bindings}}
	}
	for _, m := range after {
		if m.Deleted || deleted[m.ID] {
			delete(index, m.ID)
			deleted[m.ID] = true
			continue
		}
		entry, ok := index[m.ID]
		if !ok {
			entry = &struct{ before, after *side }{}
			index[m.ID] = entry
		}
		entry.after = &side{name: m.Name, bindings: m.Bindings}
	}

	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var changes []portalmenu.BindingChange
	for _, id := range ids {
		entry := index[id]
		var beforeSet, afterSet []string
		name := ""
		if entry.before != nil {
			beforeSet = normalizeBindings(entry.before.bindings)
			name = entry.before.name
		} else {
			beforeSet = []string{}
		}
		if entry.after != nil {
			afterSet = normalizeBindings(entry.after.bindings)
			name = entry.after.name
		} else {
			afterSet = []string{}
		}
		if equalBindings(beforeSet, afterSet) {
			continue
		}
		changes = append(changes, portalmenu.BindingChange{
			ID:     id,
			Name:   name,
			Before: beforeSet,
			After:  afterSet,
		})
	}
	return changes
}

func normalizeBindings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, b := range in {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

func equalBindings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type batchUpdatePayload struct {
	Updates []portalmenu.BindingChange `json:"updates"`
}

// ProposeBindingChanges diffs the stored snapshot against the desired one
// and files a single pending batch change request covering every changed
// menu. A zero diff files nothing and returns nil.
func (s *MenuBindingService) ProposeBindingChanges(ctx context.Context, desired []*portalmenu.Menu) (*changerequest.ChangeRequest, error) {
	current, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	changes := Diff(current, desired)
	if len(changes) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(batchUpdatePayload{Updates: changes})
	if err != nil {
		return nil, err
	}
	diff, err := bindingDiffJSON(current, desired)
	if err != nil {
		return nil, err
	}
	return s.crs.Create(ctx, CreateChangeRequestInput{
		TargetKind: menuTargetKind,
		Action:     changerequest.ActionBatchUpdate,
		Payload:    payload,
		DiffJSON:   diff,
		Submit:     true,
	})
}

// bindingDiffJSON renders the snapshot delta as a JSON merge patch over
// the id-to-bindings maps. Deleted menus stay out of both maps.
func bindingDiffJSON(before, after []*portalmenu.Menu) (json.RawMessage, error) {
	toMap := func(menus []*portalmenu.Menu) map[string][]string {
		out := make(map[string][]string, len(menus))
		for _, m := range menus {
			if m.Deleted {
				continue
			}
			out[m.ID] = normalizeBindings(m.Bindings)
		}
		return out
	}
	beforeJSON, err := json.Marshal(toMap(before))
	if err != nil {
		return nil, err
	}
	afterJSON, err := json.Marshal(toMap(after))
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.CreateMergePatch(beforeJSON, afterJSON)
	if err != nil {
		return nil, err
	}
	return patch, nil
}

// SubmitBindingChange takes a role and the menu id sets it should end up
// bound to (desired) and is currently bound to (original), projects them
// onto the stored menus' binding lists, and files the resulting diff.
// Deleted menus keep their bindings untouched.
func (s *MenuBindingService) SubmitBindingChange(ctx context.Context, roleCode string, desiredMenuIDs, originalMenuIDs []string) (*changerequest.ChangeRequest, error) {
	current, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	desired := make(map[string]bool, len(desiredMenuIDs))
	for _, id := range desiredMenuIDs {
		desired[id] = true
	}
	original := make(map[string]bool, len(originalMenuIDs))
	for _, id := range originalMenuIDs {
		original[id] = true
	}

	next := make([]*portalmenu.Menu, 0, len(current))
	for _, m := range current {
		clone := *m
		clone.Bindings = append([]string(nil), m.Bindings...)
		if !m.Deleted {
			switch {
			case desired[m.ID]:
				clone.Bindings = withBinding(clone.Bindings, roleCode)
			case original[m.ID]:
				clone.Bindings = withoutBinding(clone.Bindings, roleCode)
			}
		}
		next = append(next, &clone)
	}
	return s.ProposeBindingChanges(ctx, next)
}

func withBinding(bindings []string, b string) []string {
	for _, existing := range bindings {
		if existing == b {
			return bindings
		}
	}
	return append(bindings, b)
}

func withoutBinding(bindings []string, b string) []string {
	out := bindings[:0]
	for _, existing := range bindings {
		if existing != b {
			out = append(out, existing)
		}
	}
	return out
}

func (s *MenuBindingService) applyBatch(ctx context.Context, cr *changerequest.ChangeRequest) error {
	var payload batchUpdatePayload
	if err := json.Unmarshal(cr.Payload, &payload); err != nil {
		return newServiceError(422, "CHANGE_REQUEST_BAD_PAYLOAD", "malformed batch update payload", err)
	}
	for _, change := range payload.Updates {
		if _, err := s.repo.SetBindings(ctx, change.ID, change.After); err != nil {
			return err
		}
	}
	return nil
}

func (s *MenuBindingService) Menus(ctx context.Context) ([]*portalmenu.Menu, error) {
	return s.repo.List(ctx)
}
