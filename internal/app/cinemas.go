package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/cinema-seat-booking/api"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
)

func (app *Application) CreateCinemaHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateCinemaRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	cinemaID, err := app.engine.CreateCinema(r.Context(), input.NumSeats)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("cinema created", "cinema_id", cinemaID, "num_seats", input.NumSeats)

	resp := api.CreateCinemaResponse{
		CinemaId: cinemaID,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetCinemaHandler(w http.ResponseWriter, r *http.Request) {
	cinemaID, err := app.readIDParam(r, "cinemaId", "cinema ID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cinema, err := app.engine.GetCinema(r.Context(), cinemaID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCinemaNotFound):
			app.notFoundResponse(w, r)
		default:
			app.bookingErrorResponse(w, r, err)
		}

		return
	}

	resp := api.CinemaResponse{
		Cinema: api.Cinema{
			Id:    cinema.ID,
			Seats: toApiSeats(cinema.Seats),
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) PurchaseSeatHandler(w http.ResponseWriter, r *http.Request) {
	cinemaID, err := app.readIDParam(r, "cinemaId", "cinema ID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatID, err := app.readIDParam(r, "seatId", "seat ID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seat, err := app.engine.PurchaseSeat(r.Context(), cinemaID, seatID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.PurchaseSeatResponse{
		Seat: toApiSeat(*seat),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) PurchaseConsecutiveSeatsHandler(w http.ResponseWriter, r *http.Request) {
	cinemaID, err := app.readIDParam(r, "cinemaId", "cinema ID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seats, err := app.engine.PurchaseConsecutiveSeats(r.Context(), cinemaID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.PurchaseConsecutiveSeatsResponse{
		Seats: toApiSeats(seats),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiSeat(seat domain.Seat) api.Seat {
	return api.Seat{
		Id:          seat.ID,
		CinemaId:    seat.CinemaID,
		IsPurchased: seat.IsPurchased,
	}
}

func toApiSeats(seats []domain.Seat) []api.Seat {
	apiSeats := make([]api.Seat, len(seats))

	for i, v := range seats {
		apiSeats[i] = toApiSeat(v)
	}

	return apiSeats
}
