package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviehouse/seat-inventory/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints: advertised
// movies, the hall catalog, upcoming sessions and per-session seat maps.
type PublicHandler struct {
	Movies   *repository.MovieRepo
	Halls    *repository.HallRepo
	Sessions *repository.SessionRepo
	Seats    *repository.OrderRepo
}

func NewPublicHandler(movies *repository.MovieRepo, halls *repository.HallRepo, sessions *repository.SessionRepo, seats *repository.OrderRepo) *PublicHandler {
	if movies == nil || halls == nil || sessions == nil || seats == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Movies: movies, Halls: halls, Sessions: sessions, Seats: seats}
}

// ListMovies handles GET /v1/movies and returns only advertised titles.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context(), true)
	if err != nil {
		return internalError(c, err)
	}
	out := make([]movieResp, len(movies))
	for i, m := range movies {
		out[i] = toMovieResp(m)
	}
	return c.JSON(http.StatusOK, out)
}

// ListHalls handles GET /v1/halls.
func (h *PublicHandler) ListHalls(c echo.Context) error {
	halls, err := h.Halls.List(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	out := make([]hallResp, len(halls))
	for i, hall := range halls {
		out[i] = toHallResp(hall)
	}
	return c.JSON(http.StatusOK, out)
}

// ListSessions handles GET /v1/sessions.  Only sessions that have not
// started yet are returned.  Supported query parameters: movie, hall,
// date_from, date_to (YYYY-MM-DD), order_price and order_time
// (asc|desc).
func (h *PublicHandler) ListSessions(c echo.Context) error {
	f := repository.SessionFilter{
		MovieTitle: strings.TrimSpace(c.QueryParam("movie")),
		HallName:   strings.TrimSpace(c.QueryParam("hall")),
		OrderPrice: normalizeOrder(c.QueryParam("order_price")),
		OrderTime:  normalizeOrder(c.QueryParam("order_time")),
	}
	if s := c.QueryParam("date_from"); s != "" {
		d, err := time.ParseInLocation(dateLayout, s, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_from"})
		}
		f.DateFrom = d
	}
	if s := c.QueryParam("date_to"); s != "" {
		d, err := time.ParseInLocation(dateLayout, s, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_to"})
		}
		f.DateTo = d
	}

	sessions, err := h.Sessions.ListUpcoming(c.Request().Context(), time.Now().UTC(), f)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, sessions)
}

func normalizeOrder(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return "asc"
	case "desc":
		return "desc"
	}
	return ""
}

type seatMapResp struct {
	Session *repository.SessionDetail `json:"session"`
	Free    []uint32                  `json:"free_seats"`
	Sold    []uint32                  `json:"sold_seats"`
}

// GetSession handles GET /v1/sessions/:id and returns the session
// details together with the current seat map.  The sold list is derived
// as the complement of the free list over 1..capacity; a seat is free
// exactly when no order references it.
func (h *PublicHandler) GetSession(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Sessions.GetDetail(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	free, err := h.Seats.FreeSeats(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	freeSet := make(map[uint32]bool, len(free))
	for _, n := range free {
		freeSet[n] = true
	}
	sold := make([]uint32, 0, int(detail.Capacity)-len(free))
	for n := uint32(1); n <= detail.Capacity; n++ {
		if !freeSet[n] {
			sold = append(sold, n)
		}
	}
	return c.JSON(http.StatusOK, seatMapResp{Session: detail, Free: free, Sold: sold})
}
