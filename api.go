package pressfront

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressfront/filters"
	"github.com/eringen/pressfront/suggest"
)

// FiltersResponse is the body of every /api/filters endpoint.
type FiltersResponse struct {
	State filters.FilterState `json:"state"`
	Chips []filters.Chip      `json:"chips"`
}

func (a *App) handleSuggestions(c echo.Context) error {
	limit := a.Config.SuggestionLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, a.Config.SuggestionLimit)
	}

	items, err := suggest.NewServiceSuggester(a.Content).Suggest(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		a.Logger.Error("suggestions failed", "q", c.QueryParam("q"), "error", err)
		return c.JSON(http.StatusInternalServerError, suggest.ErrorResponse{Error: "failed to fetch suggestions"})
	}
	return c.JSON(http.StatusOK, suggest.Response{Suggestions: items})
}

// filterStore returns the visitor's filter store. A visitor whose SQLite
// slot cannot be resolved gets an unavailable store, so filters reset.
func (a *App) filterStore(c echo.Context) *filters.Store {
	var slot filters.Slot
	switch a.Config.FilterStore {
	case FilterStoreSQLite:
		id, err := filters.VisitorID(c)
		if err != nil {
			a.Logger.Warn("visitor id unavailable", "error", err)
			break
		}
		slot = a.filterDB.Slot(id)
	default:
		slot = filters.NewSessionSlot(c)
	}
	return filters.NewStore(slot, a.Logger)
}

func (a *App) coordinator(c echo.Context) *filters.Coordinator {
	return filters.NewCoordinator(c.Request().Context(), a.filterStore(c), nil)
}

func filtersJSON(c echo.Context, state filters.FilterState) error {
	chips := filters.Chips(state)
	if chips == nil {
		chips = []filters.Chip{}
	}
	return c.JSON(http.StatusOK, FiltersResponse{State: state, Chips: chips})
}

func (a *App) handleGetFilters(c echo.Context) error {
	return filtersJSON(c, a.coordinator(c).State())
}

func (a *App) handleApplyFilter(c echo.Context) error {
	var action filters.Action
	if err := c.Bind(&action); err != nil {
		return err
	}
	state, err := a.coordinator(c).Apply(c.Request().Context(), action)
	if err != nil {
		return filterError(err)
	}
	return filtersJSON(c, state)
}

func (a *App) handleRemoveChip(c echo.Context) error {
	state, err := a.coordinator(c).RemoveChip(c.Request().Context(), c.Param("key"))
	if err != nil {
		return filterError(err)
	}
	return filtersJSON(c, state)
}

func (a *App) handleClearFilters(c echo.Context) error {
	state, err := a.coordinator(c).ClearAll(c.Request().Context())
	if err != nil {
		return filterError(err)
	}
	return filtersJSON(c, state)
}

// handleFilterForm is the form variant of POST /api/filters. It always
// returns to the listing; a rejected action leaves the state unchanged.
func (a *App) handleFilterForm(c echo.Context) error {
	var action filters.Action
	if err := c.Bind(&action); err != nil {
		a.Logger.Debug("filter form rejected", "error", err)
		return c.Redirect(http.StatusSeeOther, "/blog")
	}
	if _, err := a.coordinator(c).Apply(c.Request().Context(), action); err != nil {
		a.Logger.Debug("filter action rejected", "type", action.Type, "error", err)
	}
	return c.Redirect(http.StatusSeeOther, "/blog")
}

func filterError(err error) error {
	if errors.Is(err, filters.ErrUnknownChip) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
