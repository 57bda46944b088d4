package dto

import (
	"encoding/json"
	"fmt"
)

// The backend's responses are not consistent about field casing or
// envelope shape (id vs Id, bare arrays vs {flights: []} vs {data: []}).
// Instead of sniffing shapes at every call site, each endpoint response is
// funneled through exactly one parse function here that produces a typed
// model or an error.

type object map[string]any

func decodeObject(data []byte) (object, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode response: expected JSON object, got %T", payload)
	}

	return object(obj), nil
}

func (o object) str(keys ...string) string {
	for _, key := range keys {
		switch v := o[key].(type) {
		case string:
			return v
		case float64:
			// Some deployments serialize numeric ids.
			return fmt.Sprintf("%v", v)
		}
	}

	return ""
}

func (o object) num(keys ...string) float64 {
	for _, key := range keys {
		if v, ok := o[key].(float64); ok {
			return v
		}
	}

	return 0
}

func (o object) flag(keys ...string) *bool {
	for _, key := range keys {
		if v, ok := o[key].(bool); ok {
			return &v
		}
	}

	return nil
}

func (o object) object(keys ...string) (object, bool) {
	for _, key := range keys {
		if v, ok := o[key].(map[string]any); ok {
			return object(v), true
		}
	}

	return nil, false
}

func (o object) list(keys ...string) ([]any, bool) {
	for _, key := range keys {
		if v, ok := o[key].([]any); ok {
			return v, true
		}
	}

	return nil, false
}

func objectItems(items []any) []object {
	result := make([]object, 0, len(items))

	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			result = append(result, object(obj))
		}
	}

	return result
}

func normalizeFlight(o object) Flight {
	return Flight{
		ID:             o.str("id", "Id"),
		FlightNumber:   o.str("flightNumber", "FlightNumber"),
		Departure:      o.str("departure", "Departure"),
		Destination:    o.str("destination", "Destination"),
		DepartureTime:  o.str("departureTime", "DepartureTime"),
		ArrivalTime:    o.str("arrivalTime", "ArrivalTime"),
		BasePrice:      o.num("basePrice", "BasePrice"),
		Status:         o.str("status", "Status"),
		AvailableSeats: int(o.num("availableSeats", "AvailableSeats")),
		TotalSeats:     int(o.num("totalSeats", "TotalSeats")),
	}
}

// ParseFlights accepts either a bare array of flights or an envelope under
// flights/Flights/items/data.
func ParseFlights(data []byte) ([]Flight, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode flight list: %w", err)
	}

	items, ok := payload.([]any)
	if !ok {
		obj, isObj := payload.(map[string]any)
		if !isObj {
			return nil, fmt.Errorf("decode flight list: unexpected shape %T", payload)
		}

		items, ok = object(obj).list("flights", "Flights", "items", "data")
		if !ok {
			return []Flight{}, nil
		}
	}

	flights := make([]Flight, 0, len(items))
	for _, item := range objectItems(items) {
		flights = append(flights, normalizeFlight(item))
	}

	return flights, nil
}

// ParseSeatMap decodes the flight/{id}/seats response.
func ParseSeatMap(data []byte) (SeatMap, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return SeatMap{}, err
	}

	seatMap := SeatMap{
		FlightID:            obj.str("flightId", "FlightId", "flightID"),
		FlightNumber:        obj.str("flightNumber", "FlightNumber"),
		AvailableSeatsCount: int(obj.num("availableSeatsCount", "AvailableSeatsCount")),
		ReservedSeatsCount:  int(obj.num("reservedSeatsCount", "ReservedSeatsCount")),
		TotalSeatsCount:     int(obj.num("totalSeatsCount", "TotalSeatsCount")),
	}

	items, _ := obj.list("seats", "Seats", "items")
	seatMap.Seats = make([]Seat, 0, len(items))

	for _, item := range objectItems(items) {
		reserved := item.flag("isReserved", "IsReserved")
		seatMap.Seats = append(seatMap.Seats, Seat{
			ID:         item.str("id", "Id"),
			SeatNumber: item.str("seatNumber", "SeatNumber"),
			IsReserved: reserved != nil && *reserved,
			Price:      item.num("price", "Price"),
			UserID:     item.str("userId", "UserId"),
		})
	}

	return seatMap, nil
}

// ParseAirports accepts the airport list under airports/Airports/items/Items,
// possibly nested in a data envelope, deduplicated by IATA code. Entries
// without a code are dropped.
func ParseAirports(data []byte) ([]Airport, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	items, ok := obj.list("airports", "Airports", "items", "Items", "data", "Data")
	if !ok {
		if nested, isNested := obj.object("data", "Data"); isNested {
			items, _ = nested.list("airports", "Airports", "items", "Items")
		}
	}

	seen := make(map[string]bool)
	airports := make([]Airport, 0, len(items))

	for _, item := range objectItems(items) {
		airport := Airport{
			ID:      item.str("id", "Id", "airportId", "AirportId"),
			Code:    item.str("code", "Code"),
			Name:    item.str("name", "Name"),
			City:    item.str("city", "City"),
			Country: item.str("country", "Country"),
		}

		if airport.Code == "" || seen[airport.Code] {
			continue
		}

		seen[airport.Code] = true
		airports = append(airports, airport)
	}

	return airports, nil
}

func normalizeAuthUser(o object) AuthUser {
	return AuthUser{
		ID:        o.str("id", "Id"),
		Email:     o.str("email", "Email"),
		FirstName: o.str("firstName", "FirstName"),
		LastName:  o.str("lastName", "LastName"),
		Role:      o.str("role", "Role"),
	}
}

// ParseAuthResponse decodes a login reply. The token/user presence contract
// is enforced by the caller; absent fields stay zero.
func ParseAuthResponse(data []byte) (AuthResponse, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return AuthResponse{}, err
	}

	response := AuthResponse{
		Token:     obj.str("token", "Token"),
		ExpiresAt: obj.str("expiresAt", "ExpiresAt"),
	}

	if user, ok := obj.object("user", "User"); ok {
		response.User = normalizeAuthUser(user)
	}

	return response, nil
}

// ParseRegisterResponse decodes a signup reply, keeping both possible
// success shapes apart.
func ParseRegisterResponse(data []byte) (RegisterResponse, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return RegisterResponse{}, err
	}

	response := RegisterResponse{
		IsSuccess: obj.flag("isSuccess", "IsSuccess"),
		UserID:    obj.str("userId", "UserId"),
		Message:   obj.str("message", "Message"),
	}

	token := obj.str("token", "Token")
	user, hasUser := obj.object("user", "User")

	if token != "" && hasUser {
		response.Auth = &AuthResponse{
			Token:     token,
			ExpiresAt: obj.str("expiresAt", "ExpiresAt"),
			User:      normalizeAuthUser(user),
		}
	}

	return response, nil
}

// ParseMessage extracts a bare {message} reply (forgot/reset password,
// verify email).
func ParseMessage(data []byte) (string, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return "", err
	}

	return obj.str("message", "Message"), nil
}

// ParseReservationAck decodes one reservation reply. A missing or
// unparseable body yields a zero ack, matching the opportunistic parse the
// reservation loop performs on the already-read response text.
func ParseReservationAck(data []byte) ReservationAck {
	obj, err := decodeObject(data)
	if err != nil {
		return ReservationAck{}
	}

	success := obj.flag("isSuccess", "IsSuccess")

	return ReservationAck{
		CorrelationID: obj.str("correlationId", "CorrelationId"),
		ReservationID: obj.str("reservationId", "ReservationId"),
		Message:       obj.str("message", "Message"),
		Traceparent:   obj.str("traceparent"),
		Tracestate:    obj.str("tracestate"),
		Denied:        success != nil && !*success,
	}
}

// ParsePaymentResult decodes one payment reply; Success is true only for an
// explicit success:true.
func ParsePaymentResult(data []byte) PaymentResult {
	obj, err := decodeObject(data)
	if err != nil {
		return PaymentResult{}
	}

	success := obj.flag("success", "Success")

	return PaymentResult{
		Success:       success != nil && *success,
		TransactionID: obj.str("transactionId", "TransactionId"),
		Message:       obj.str("message", "Message"),
		Code:          obj.str("code", "Code"),
	}
}

// ParseReservations accepts a bare array or an envelope under
// reservations/Reservations/items/data.
func ParseReservations(data []byte) ([]Reservation, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode reservation list: %w", err)
	}

	items, ok := payload.([]any)
	if !ok {
		obj, isObj := payload.(map[string]any)
		if !isObj {
			return nil, fmt.Errorf("decode reservation list: unexpected shape %T", payload)
		}

		items, _ = object(obj).list("reservations", "Reservations", "items", "data")
	}

	reservations := make([]Reservation, 0, len(items))
	for _, item := range objectItems(items) {
		reservations = append(reservations, Reservation{
			ID:             item.str("id", "Id", "reservationId", "ReservationId"),
			FlightNumber:   item.str("flightNumber", "FlightNumber"),
			SeatNumber:     item.str("seatNumber", "SeatNumber"),
			Status:         item.str("status", "Status"),
			Price:          item.num("price", "Price"),
			PassengerEmail: item.str("passengerEmail", "PassengerEmail"),
			CreatedAt:      item.str("createdAt", "CreatedAt"),
		})
	}

	return reservations, nil
}

// ParseErrorBody decodes the backend's error shape. ok is false when the
// body is not a JSON object at all.
func ParseErrorBody(data []byte) (ErrorBody, bool) {
	obj, err := decodeObject(data)
	if err != nil {
		return ErrorBody{}, false
	}

	body := ErrorBody{
		Message: obj.str("message", "Message"),
		Code:    obj.str("code", "Code"),
	}

	items, _ := obj.list("errors", "Errors")
	for _, item := range objectItems(items) {
		body.Errors = append(body.Errors, FieldError{
			PropertyName: item.str("propertyName", "PropertyName"),
			ErrorMessage: item.str("errorMessage", "ErrorMessage"),
		})
	}

	return body, true
}

// ParseCreated extracts the id+message of a creation reply (airport,
// flight). isSuccess:false is surfaced as an empty id with the message.
func ParseCreated(data []byte, idKeys ...string) (id string, message string) {
	obj, err := decodeObject(data)
	if err != nil {
		return "", ""
	}

	return obj.str(idKeys...), obj.str("message", "Message")
}
