//go:build unit

package dto

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFlights(t *testing.T) {
	parse := func(body string, want []Flight, wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			got, err := ParseFlights([]byte(body))
			if (err != nil) != wantErr {
				t.Fatalf("ParseFlights() error = %v, wantErr %v", err, wantErr)
			}

			if wantErr {
				return
			}

			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("ParseFlights() mismatch (-want +got):\n%s", diff)
			}
		}
	}

	flight := Flight{ID: "f1", FlightNumber: "SS101", Departure: "IST", Destination: "AMS", BasePrice: 149.9}

	t.Run("bare_array", parse(
		`[{"id":"f1","flightNumber":"SS101","departure":"IST","destination":"AMS","basePrice":149.9}]`,
		[]Flight{flight}, false))

	t.Run("pascal_case_envelope", parse(
		`{"Flights":[{"Id":"f1","FlightNumber":"SS101","Departure":"IST","Destination":"AMS","BasePrice":149.9}]}`,
		[]Flight{flight}, false))

	t.Run("data_envelope", parse(
		`{"data":[{"id":"f1","flightNumber":"SS101","departure":"IST","destination":"AMS","basePrice":149.9}]}`,
		[]Flight{flight}, false))

	t.Run("object_without_list_is_empty", parse(`{"message":"ok"}`, []Flight{}, false))

	t.Run("scalar_is_error", parse(`42`, nil, true))
}

func TestParseAirports_DedupesAndDropsEmptyCodes(t *testing.T) {
	body := `{"data":{"airports":[
		{"id":"a1","code":"IST","name":"Istanbul Airport"},
		{"id":"a2","code":"IST","name":"duplicate"},
		{"id":"a3","code":"","name":"no code"},
		{"id":"a4","code":"AMS","name":"Schiphol"}
	]}}`

	got, err := ParseAirports([]byte(body))
	if err != nil {
		t.Fatalf("ParseAirports() error = %v", err)
	}

	want := []Airport{
		{ID: "a1", Code: "IST", Name: "Istanbul Airport"},
		{ID: "a4", Code: "AMS", Name: "Schiphol"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseAirports() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReservationAck(t *testing.T) {
	t.Run("denied_only_on_explicit_false", func(t *testing.T) {
		ack := ParseReservationAck([]byte(`{"isSuccess":false,"message":"seat taken"}`))
		if !ack.Denied {
			t.Fatal("explicit isSuccess:false must mark the ack denied")
		}

		ack = ParseReservationAck([]byte(`{"correlationId":"C1","reservationId":"R1"}`))
		if ack.Denied {
			t.Fatal("absent isSuccess must not mark the ack denied")
		}
	})

	t.Run("unparseable_body_is_zero_ack", func(t *testing.T) {
		if diff := cmp.Diff(ReservationAck{}, ParseReservationAck([]byte("<html>"))); diff != "" {
			t.Fatalf("ParseReservationAck() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("trace_tokens_from_body", func(t *testing.T) {
		ack := ParseReservationAck([]byte(`{"correlationId":"C1","traceparent":"00-aa-bb-01","tracestate":"k=v"}`))
		if ack.Traceparent != "00-aa-bb-01" || ack.Tracestate != "k=v" {
			t.Fatalf("trace tokens not captured: %+v", ack)
		}
	})
}

func TestParsePaymentResult(t *testing.T) {
	t.Run("success_requires_explicit_true", func(t *testing.T) {
		if ParsePaymentResult([]byte(`{"transactionId":"T1"}`)).Success {
			t.Fatal("missing success flag must not count as success")
		}

		result := ParsePaymentResult([]byte(`{"success":true,"transactionId":"T1"}`))
		if !result.Success || result.TransactionID != "T1" {
			t.Fatalf("ParsePaymentResult() = %+v", result)
		}
	})
}

func TestParseRegisterResponse(t *testing.T) {
	t.Run("token_and_user_shape", func(t *testing.T) {
		resp, err := ParseRegisterResponse([]byte(
			`{"token":"tok","user":{"id":"u1","email":"a@b.c"}}`))
		if err != nil {
			t.Fatalf("ParseRegisterResponse() error = %v", err)
		}

		if resp.Auth == nil || resp.Auth.Token != "tok" || resp.Auth.User.ID != "u1" {
			t.Fatalf("auth shape not recognized: %+v", resp)
		}
	})

	t.Run("verification_pending_shape", func(t *testing.T) {
		resp, err := ParseRegisterResponse([]byte(
			`{"isSuccess":true,"userId":"u2","message":"check your email"}`))
		if err != nil {
			t.Fatalf("ParseRegisterResponse() error = %v", err)
		}

		if resp.Auth != nil {
			t.Fatal("verification shape must not produce a session")
		}

		if resp.IsSuccess == nil || !*resp.IsSuccess || resp.UserID != "u2" {
			t.Fatalf("verification shape not recognized: %+v", resp)
		}
	})
}
