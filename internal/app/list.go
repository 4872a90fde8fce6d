package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/promofinder/internal/catalog"
	"github.com/five82/promofinder/internal/state"
)

// ErrLoadFailed is returned by RunList when the catalog could not be loaded.
var ErrLoadFailed = errors.New("catalog load failed")

// ListOptions select the promotions printed by RunList. Zero values mean
// "no constraint"; a nil position keeps the configured viewer.
type ListOptions struct {
	CategoryID string
	StoreID    string
	MaxKm      float64
	Latitude   *float64
	Longitude  *float64
}

// RunList loads the catalog once, applies opts through the store actions and
// writes the filtered promotions to w as a table.
func RunList(ctx context.Context, opts Options, lo ListOptions, w io.Writer) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	e.store.FetchInitialData(ctx)
	snap := e.store.Snapshot()
	if snap.LoadingStatus != state.StatusSucceeded {
		return fmt.Errorf("%w: %s", ErrLoadFailed, snap.Error)
	}

	applyListFilters(e.store, snap.Filters, lo)

	snap = e.store.Snapshot()
	promotions := state.SelectFilteredPromotions(snap)
	e.logger.Info().Int("matched", len(promotions)).Int("total", len(snap.AllPromotions)).Msg("listed promotions")

	if _, err := fmt.Fprintln(w, renderTable(promotions, snap.Filters, time.Now())); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%d of %d promotions\n", len(promotions), len(snap.AllPromotions))
	return err
}

func applyListFilters(store *state.Store, current state.Filters, lo ListOptions) {
	store.SetCategoryFilter(lo.CategoryID)
	store.SetStoreFilter(lo.StoreID)

	if lo.MaxKm <= 0 && lo.Latitude == nil && lo.Longitude == nil {
		return
	}
	lat, lon := current.UserLatitude, current.UserLongitude
	if lo.Latitude != nil {
		lat = *lo.Latitude
	}
	if lo.Longitude != nil {
		lon = *lo.Longitude
	}
	var maxKm *float64
	if lo.MaxKm > 0 {
		maxKm = &lo.MaxKm
	}
	store.SetProximityFilter(lat, lon, maxKm)
}

func renderTable(promotions []catalog.Promotion, f state.Filters, now time.Time) string {
	rows := make([][]string, 0, len(promotions))
	for _, p := range promotions {
		rows = append(rows, listRow(p, f, now))
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	dim := cell.Faint(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "TITLE", "CATEGORY", "STORE", "DISCOUNT", "DISTANCE", "VALID UNTIL", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row >= 0 && row < len(promotions) && promotions[row].Expired(now):
				return dim
			default:
				return cell
			}
		}).
		String()
}

func listRow(p catalog.Promotion, f state.Filters, now time.Time) []string {
	discount := ""
	switch {
	case p.DiscountPercentage != nil:
		discount = strconv.FormatFloat(*p.DiscountPercentage, 'f', 0, 64) + "%"
	case p.DiscountCode != "":
		discount = p.DiscountCode
	}

	distance := "-"
	if d, ok := state.DistanceFromViewer(f, p.Store); ok {
		distance = strconv.FormatFloat(d, 'f', 1, 64) + " km"
	}

	valid := "-"
	if until, ok := p.Expiry(); ok {
		valid = until.Local().Format("02/01/2006")
		if until.Before(now) {
			valid += " (expired)"
		}
	}

	special := ""
	if p.IsSpecial {
		special = "★"
	}
	return []string{p.ID, p.Title, p.Category.Name, p.Store.Name, discount, distance, valid, special}
}
