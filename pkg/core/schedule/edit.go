package schedule

import (
	"errors"
	"fmt"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
)

// Manual-edit validation failures. Callers match with errors.Is to learn
// which constraint rejected the edit; the store is left unchanged on error.
var (
	ErrNoSuchCell      = errors.New("no schedule cell for that location and day")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrOnPTO           = errors.New("provider is on PTO that date")
	ErrDoubleBooked    = errors.New("provider already assigned to a different shift that day")
)

// Placement names one occupied slot: a provider in a shift cell.
type Placement struct {
	Location model.Location
	Day      int
	Shift    model.ShiftType
	Provider string
}

// Editor applies validated manual edits to a generated schedule.
type Editor struct {
	store     *Store
	providers map[string]*model.Provider
}

// NewEditor wraps a store with the roster needed for PTO validation.
func NewEditor(store *Store, providers []model.Provider) *Editor {
	byName := make(map[string]*model.Provider, len(providers))
	for i := range providers {
		byName[providers[i].Name] = &providers[i]
	}
	return &Editor{store: store, providers: byName}
}

// SetShift replaces the full provider list of one cell. Every selected
// provider must be off PTO that date and not already in a different work
// shift the same day at the same location; otherwise nothing is mutated.
func (e *Editor) SetShift(loc model.Location, day int, shift model.ShiftType, names []string) error {
	cell, ok := e.store.Cell(loc, day)
	if !ok {
		return fmt.Errorf("%s day %d: %w", loc, day, ErrNoSuchCell)
	}

	for _, name := range names {
		if err := e.checkPTO(name, day); err != nil {
			return err
		}
		if current, assigned := cell.ShiftOf(name); assigned && current != shift {
			return fmt.Errorf("%s already in %s shift on day %d: %w", name, current, day, ErrDoubleBooked)
		}
	}

	deduped := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			deduped = append(deduped, name)
		}
	}
	cell.Shifts[shift] = deduped
	return nil
}

// Move relocates one provider from a source cell to a target cell, possibly
// on another day or at another location. The provider is removed from every
// shift of the target day before insertion, so the single-assignment-per-day
// invariant holds. Validation failure leaves the source cell unchanged.
func (e *Editor) Move(from, to Placement) error {
	if from.Provider != to.Provider {
		return fmt.Errorf("move names different providers: %q and %q", from.Provider, to.Provider)
	}

	srcCell, ok := e.store.Cell(from.Location, from.Day)
	if !ok {
		return fmt.Errorf("%s day %d: %w", from.Location, from.Day, ErrNoSuchCell)
	}
	dstCell, ok := e.store.Cell(to.Location, to.Day)
	if !ok {
		return fmt.Errorf("%s day %d: %w", to.Location, to.Day, ErrNoSuchCell)
	}

	if err := e.validateMove(dstCell, to, from.Shift); err != nil {
		return err
	}

	dstCell.RemoveEverywhere(to.Provider)
	dstCell.Add(to.Shift, to.Provider)
	if srcCell != dstCell {
		srcCell.Remove(from.Shift, from.Provider)
	}
	return nil
}

// Swap exchanges the occupants of two cells. Both directions are validated
// before either side mutates; a failure on either half aborts the whole swap.
func (e *Editor) Swap(a, b Placement) error {
	aCell, ok := e.store.Cell(a.Location, a.Day)
	if !ok {
		return fmt.Errorf("%s day %d: %w", a.Location, a.Day, ErrNoSuchCell)
	}
	bCell, ok := e.store.Cell(b.Location, b.Day)
	if !ok {
		return fmt.Errorf("%s day %d: %w", b.Location, b.Day, ErrNoSuchCell)
	}

	// A moves into B's slot and vice versa. Validate both directions against
	// the untouched grid first.
	aToB := Placement{Location: b.Location, Day: b.Day, Shift: b.Shift, Provider: a.Provider}
	bToA := Placement{Location: a.Location, Day: a.Day, Shift: a.Shift, Provider: b.Provider}
	if err := e.validateMove(bCell, aToB, a.Shift); err != nil {
		return err
	}
	if err := e.validateMove(aCell, bToA, b.Shift); err != nil {
		return err
	}

	aCell.Remove(a.Shift, a.Provider)
	bCell.Remove(b.Shift, b.Provider)
	bCell.Add(b.Shift, a.Provider)
	aCell.Add(a.Shift, b.Provider)
	return nil
}

// validateMove checks PTO and double-booking for inserting target.Provider
// into cell. sourceShift is the shift the provider is declared to come from;
// occupying that slot (or the target slot itself) is not a conflict.
func (e *Editor) validateMove(cell *Cell, target Placement, sourceShift model.ShiftType) error {
	if err := e.checkPTO(target.Provider, target.Day); err != nil {
		return err
	}
	current, assigned := cell.ShiftOf(target.Provider)
	if assigned && current != target.Shift && current != sourceShift {
		return fmt.Errorf("%s already in %s shift on day %d: %w", target.Provider, current, target.Day, ErrDoubleBooked)
	}
	return nil
}

func (e *Editor) checkPTO(name string, day int) error {
	provider, ok := e.providers[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownProvider)
	}
	if provider.OnPTO(e.store.Date(day)) {
		return fmt.Errorf("%s on day %d: %w", name, day, ErrOnPTO)
	}
	return nil
}
