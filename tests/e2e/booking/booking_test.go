//go:build e2e

package booking_test

import (
	"net/http"
	"testing"
	"time"

	"car-rental-backend/internal/domain/user"
	"car-rental-backend/internal/handler/dto/request"
	"car-rental-backend/internal/handler/dto/response"
	"car-rental-backend/tests/common/dbtest"
	"car-rental-backend/tests/common/httptest"
	"car-rental-backend/tests/e2e"
	"car-rental-backend/tests/e2e/common/helper"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL = "/api/bookings"
	loyaltyURL  = "/api/loyalty/account"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) jwtHelper() *helper.JWTTestHelper {
	return helper.NewJWTTestHelper(s.Config.JWT)
}

// rentalWindow returns a pickup/return pair starting tomorrow and spanning days.
func rentalWindow(days int) (time.Time, time.Time) {
	pickup := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	return pickup, pickup.Add(time.Duration(days) * 24 * time.Hour)
}

func (s *BookingSuite) createBooking(t *testing.T, token string, vehicleID uuid.UUID, pickup, ret time.Time, method string) uuid.UUID {
	t.Helper()

	reqBody := request.CreateBookingRequest{
		VehicleID:     vehicleID,
		PickupAt:      pickup,
		ReturnAt:      ret,
		PaymentMethod: method,
	}
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created response.CreateBookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
	require.NotEqual(t, uuid.Nil, created.ID)
	return created.ID
}

// =============================================================================
// TestBookingLifecycle - full create/approve/extend/cancel flow against the DB
// =============================================================================

func (s *BookingSuite) TestBookingLifecycle() {
	s.Run("customer creates a booking and reads it back", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Toyota", "Corolla", decimal.RequireFromString("50.00"), "available")
		token := s.jwtHelper().GenerateToken(t, userID, user.RoleCustomer)

		pickup, ret := rentalWindow(2)
		bookingID := s.createBooking(t, token, vehicleID, pickup, ret, "pay_at_pickup")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/"+bookingID.String(), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var actual response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &actual))

		expected := response.BookingResponse{
			UserEmail:     "renter@example.com",
			UserName:      "Test User",
			VehicleMake:   "Toyota",
			VehicleModel:  "Corolla",
			TotalPrice:    "100.00",
			Status:        "requested",
			PaymentMethod: "pay_at_pickup",
			PaymentStatus: "pending",
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.BookingResponse{},
				"ID", "UserID", "VehicleID", "LicensePlate",
				"PickupAt", "ReturnAt", "BookedAt", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, actual, opts...); diff != "" {
			t.Errorf("booking response mismatch (-want +got):\n%s", diff)
		}

		require.Equal(t, "reserved", dbtest.GetVehicleStatus(t, s.DB, vehicleID))

		// 2 rental days earn 20 points on the fresh account
		aw := httptest.PerformRequest(t, s.Router, http.MethodGet, loyaltyURL, nil, token)
		require.Equal(t, http.StatusOK, aw.Code)
		var account response.LoyaltyAccountResponse
		require.NoError(t, httptest.DecodeResponseBody(t, aw.Body, &account))
		require.Equal(t, int64(20), account.Points)
		require.Equal(t, "bronze", account.Tier)

		// Confirmation goes through the outbox and the background dispatcher
		require.Equal(t, 1, dbtest.CountNotificationJobs(t, s.DB, bookingID, "booking_confirmation"))
		require.True(t,
			dbtest.WaitForNotificationStatus(t, s.DB, bookingID, "booking_confirmation", "sent", 3*time.Second),
			"confirmation job was not dispatched")
	})

	s.Run("overlapping request on the same vehicle is rejected", func() {
		t := s.T()

		firstID := dbtest.CreateTestUser(t, s.DB, "first@example.com", string(user.RoleCustomer))
		secondID := dbtest.CreateTestUser(t, s.DB, "second@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Honda", "Civic", decimal.RequireFromString("40.00"), "available")
		jwtH := s.jwtHelper()

		pickup, ret := rentalWindow(3)
		s.createBooking(t, jwtH.GenerateToken(t, firstID, user.RoleCustomer), vehicleID, pickup, ret, "pay_now")

		// Same-day handoff counts as a conflict: pickup at the other booking's return
		reqBody := request.CreateBookingRequest{
			VehicleID:     vehicleID,
			PickupAt:      ret,
			ReturnAt:      ret.Add(24 * time.Hour),
			PaymentMethod: "pay_at_pickup",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			reqBody, jwtH.GenerateToken(t, secondID, user.RoleCustomer))
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "not available")
	})

	s.Run("manager approves and settles a pay_now booking", func() {
		t := s.T()

		customerID := dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		managerID := dbtest.CreateTestUser(t, s.DB, "manager@example.com", string(user.RoleManager))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Ford", "Focus", decimal.RequireFromString("45.00"), "available")
		jwtH := s.jwtHelper()

		pickup, ret := rentalWindow(2)
		bookingID := s.createBooking(t,
			jwtH.GenerateToken(t, customerID, user.RoleCustomer), vehicleID, pickup, ret, "pay_now")

		statusURL := "/api/admin/bookings/" + bookingID.String() + "/status"
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, statusURL,
			request.UpdateBookingStatusRequest{Status: "approved"},
			jwtH.GenerateToken(t, managerID, user.RoleManager))
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		status, paymentStatus := dbtest.GetBookingRow(t, s.DB, bookingID)
		require.Equal(t, "approved", status)
		require.Equal(t, "completed", paymentStatus)

		require.Equal(t, 1, dbtest.CountNotificationJobs(t, s.DB, bookingID, "booking_approval"))
	})

	s.Run("extension across the discount boundary charges the gap", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Mazda", "3", decimal.RequireFromString("50.00"), "available")
		token := s.jwtHelper().GenerateToken(t, userID, user.RoleCustomer)

		pickup, ret := rentalWindow(2)
		bookingID := s.createBooking(t, token, vehicleID, pickup, ret, "pay_at_pickup")

		// 2 days at 50.00 booked for 100.00; 4 days re-priced with the long
		// rental discount is 180.00, so the extension charges the 80.00 gap.
		extendURL := bookingsURL + "/" + bookingID.String() + "/extend"
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, extendURL,
			request.ExtendBookingRequest{NewReturnAt: ret.Add(48 * time.Hour)}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var extended response.ExtendBookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &extended))
		require.Equal(t, "80.00", extended.AdditionalCharge)

		dw := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/"+bookingID.String(), nil, token)
		require.Equal(t, http.StatusOK, dw.Code)
		var detail response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, dw.Body, &detail))
		require.Equal(t, "180.00", detail.TotalPrice)

		// 20 points from booking plus 20 from the two added days
		aw := httptest.PerformRequest(t, s.Router, http.MethodGet, loyaltyURL, nil, token)
		require.Equal(t, http.StatusOK, aw.Code)
		var account response.LoyaltyAccountResponse
		require.NoError(t, httptest.DecodeResponseBody(t, aw.Body, &account))
		require.Equal(t, int64(40), account.Points)
	})

	s.Run("cancellation releases the vehicle and keeps earned points", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Nissan", "Leaf", decimal.RequireFromString("55.00"), "available")
		token := s.jwtHelper().GenerateToken(t, userID, user.RoleCustomer)

		pickup, ret := rentalWindow(2)
		bookingID := s.createBooking(t, token, vehicleID, pickup, ret, "pay_at_pickup")

		cancelURL := bookingsURL + "/" + bookingID.String() + "/cancel"
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL, nil, token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		status, _ := dbtest.GetBookingRow(t, s.DB, bookingID)
		require.Equal(t, "cancelled", status)
		require.Equal(t, "available", dbtest.GetVehicleStatus(t, s.DB, vehicleID))

		aw := httptest.PerformRequest(t, s.Router, http.MethodGet, loyaltyURL, nil, token)
		require.Equal(t, http.StatusOK, aw.Code)
		var account response.LoyaltyAccountResponse
		require.NoError(t, httptest.DecodeResponseBody(t, aw.Body, &account))
		require.Equal(t, int64(20), account.Points)

		require.Equal(t, 1, dbtest.CountNotificationJobs(t, s.DB, bookingID, "booking_cancellation"))

		// Double cancel hits the terminal state guard
		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL, nil, token)
		httptest.AssertErrorResponse(t, w2, http.StatusConflict, "")
	})

	s.Run("other customers cannot see or cancel the booking", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleCustomer))
		otherID := dbtest.CreateTestUser(t, s.DB, "other@example.com", string(user.RoleCustomer))
		vehicleID := dbtest.CreateTestVehicle(t, s.DB, "Kia", "Rio", decimal.RequireFromString("35.00"), "available")
		jwtH := s.jwtHelper()

		pickup, ret := rentalWindow(1)
		bookingID := s.createBooking(t,
			jwtH.GenerateToken(t, ownerID, user.RoleCustomer), vehicleID, pickup, ret, "pay_at_pickup")

		otherToken := jwtH.GenerateToken(t, otherID, user.RoleCustomer)
		detailURL := bookingsURL + "/" + bookingID.String()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, detailURL, nil, otherToken)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "")

		cw := httptest.PerformRequest(t, s.Router, http.MethodPost, detailURL+"/cancel", nil, otherToken)
		httptest.AssertErrorResponse(t, cw, http.StatusNotFound, "")

		status, _ := dbtest.GetBookingRow(t, s.DB, bookingID)
		require.Equal(t, "requested", status)
	})

	s.Run("expired token is rejected", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		token := s.jwtHelper().CreateExpiredToken(t, userID, user.RoleCustomer)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, token)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("customer cannot reach the admin status endpoint", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "renter@example.com", string(user.RoleCustomer))
		token := s.jwtHelper().GenerateToken(t, userID, user.RoleCustomer)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			"/api/admin/bookings/"+uuid.NewString()+"/status",
			request.UpdateBookingStatusRequest{Status: "approved"}, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
