// Package app holds the presentation-facing core: an explicit state struct
// and a reducer mapping user intents to pure state transitions. The
// collection store and view derivation stay free of UI concerns; this package
// is the only place that touches both.
package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/joaoccaldas/coinsnap-collector/internal/collection"
	"github.com/joaoccaldas/coinsnap-collector/internal/model"
	"github.com/joaoccaldas/coinsnap-collector/internal/normalize"
	"github.com/joaoccaldas/coinsnap-collector/internal/view"
	"github.com/joaoccaldas/coinsnap-collector/pkg/vision"
)

// Screen names the view the user is on.
type Screen string

const (
	ScreenDashboard  Screen = "dashboard"
	ScreenCollection Screen = "collection"
	ScreenAdd        Screen = "add"
	ScreenDetails    Screen = "details"
)

// Pending is an in-progress, not-yet-saved coin candidate: the captured
// images plus the editable identification draft. Busy marks the window
// between capture and the identification outcome.
type Pending struct {
	Draft         vision.Identification
	FrontImageURL string
	BackImageURL  string
	Busy          bool
}

// State is the full UI-facing application state. It is a value: the reducer
// returns a new State rather than mutating in place.
type State struct {
	Screen     Screen
	Query      view.Query
	SelectedID string
	Pending    *Pending
	Err        string
}

// NewState returns the initial state: the dashboard, newest coins first.
func NewState() State {
	return State{
		Screen: ScreenDashboard,
		Query:  view.Query{By: model.SortByDate, Order: model.OrderDesc},
	}
}

// Derive computes the display view for the current state from a collection
// snapshot.
func (s State) Derive(col *collection.Collection) view.View {
	return view.Derive(col.All(), s.Query)
}

// Intent is a discrete user action delivered by the presentation layer.
type Intent interface{ isIntent() }

type (
	// StartAdd opens the capture workflow.
	StartAdd struct{}
	// Captured records the two captured image references and marks the
	// pending entry busy until the identification outcome arrives.
	Captured struct{ FrontURL, BackURL string }
	// Identified delivers a successful identification result.
	Identified struct{ Result vision.Identification }
	// IdentifyFailed delivers the failure outcome; the pending entry is
	// cleared to a retryable error state and the store is never touched.
	IdentifyFailed struct{ Err error }
	// EditPendingField overrides one field of the pending draft before save.
	EditPendingField struct{ Name, Value string }
	// Save commits the pending entry to the collection.
	Save struct{}
	// Cancel abandons the pending entry.
	Cancel struct{}
	// Delete removes a coin by id.
	Delete struct{ ID string }
	// Select focuses one coin for the details screen.
	Select struct{ ID string }
	// SetQuery changes the free-text filter.
	SetQuery struct{ Text string }
	// SetSort changes the list order.
	SetSort struct {
		By    model.SortKey
		Order model.SortOrder
	}
)

func (StartAdd) isIntent()         {}
func (Captured) isIntent()         {}
func (Identified) isIntent()       {}
func (IdentifyFailed) isIntent()   {}
func (EditPendingField) isIntent() {}
func (Save) isIntent()             {}
func (Cancel) isIntent()           {}
func (Delete) isIntent()           {}
func (Select) isIntent()           {}
func (SetQuery) isIntent()         {}
func (SetSort) isIntent()          {}

// Reduce applies one intent. Collection mutations happen through col; every
// other effect is expressed in the returned State.
func Reduce(ctx context.Context, s State, in Intent, col *collection.Collection) State {
	switch in := in.(type) {
	case StartAdd:
		s.Screen = ScreenAdd
		s.Pending = nil
		s.Err = ""

	case Captured:
		back := in.BackURL
		if back == "" {
			back = in.FrontURL
		}
		s.Pending = &Pending{
			FrontImageURL: in.FrontURL,
			BackImageURL:  back,
			Busy:          true,
		}
		s.Err = ""

	case Identified:
		// A retake abandons the pending entry; a late result for it is
		// dropped rather than resurrecting the wizard.
		if s.Pending == nil {
			return s
		}
		s.Pending.Draft = in.Result
		s.Pending.Busy = false
		s.Err = ""

	case IdentifyFailed:
		s.Pending = nil
		s.Err = "identification failed"
		if in.Err != nil {
			s.Err = "identification failed: " + in.Err.Error()
		}

	case EditPendingField:
		if s.Pending == nil || s.Pending.Busy {
			return s
		}
		editPending(&s.Pending.Draft, in.Name, in.Value)

	case Save:
		if s.Pending == nil || s.Pending.Busy {
			s.Err = "nothing to save"
			return s
		}
		if strings.TrimSpace(s.Pending.Draft.Name) == "" {
			s.Err = "a name is required before saving"
			return s
		}
		coin := normalize.FromIdentification(
			s.Pending.Draft, s.Pending.FrontImageURL, s.Pending.BackImageURL,
		)
		col.Append(ctx, coin)
		s.Pending = nil
		s.Err = ""
		s.Screen = ScreenCollection

	case Cancel:
		s.Pending = nil
		s.Err = ""
		s.Screen = ScreenCollection

	case Delete:
		col.Remove(ctx, in.ID)
		// A transient selection of the deleted record must not survive it.
		if s.SelectedID == in.ID {
			s.SelectedID = ""
			if s.Screen == ScreenDetails {
				s.Screen = ScreenCollection
			}
		}

	case Select:
		if _, ok := col.Get(in.ID); !ok {
			return s
		}
		s.SelectedID = in.ID
		s.Screen = ScreenDetails

	case SetQuery:
		s.Query.Text = in.Text

	case SetSort:
		s.Query.By = in.By
		s.Query.Order = in.Order
	}

	return s
}

// editPending writes one user-edited field into the draft, coercing numeric
// fields with the same tolerance the normalizer applies.
func editPending(d *vision.Identification, name, value string) {
	switch name {
	case "name":
		d.Name = value
	case "country":
		d.Country = value
	case "denomination":
		d.Denomination = value
	case "composition":
		d.Composition = value
	case "description":
		d.Description = value
	case "condition":
		d.Condition = value
	case "rarityDetails":
		d.RarityDetails = value
	case "value":
		d.EstimatedValue = normalize.CoerceValue(value)
	case "year":
		if y, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			d.Year = &y
		} else {
			d.Year = nil
		}
	case "isRare":
		d.IsRare = strings.EqualFold(strings.TrimSpace(value), "true")
	}
}
