package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"repatroom/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter(service *Service, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	h := NewHandler(service)
	v1 := r.Group("/api/v1")
	h.RegisterRoutes(v1)
	h.RegisterAdminRoutes(v1)
	return r
}

func TestHandler_CreateBooking_Created(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(sharingRoom(), nil)
	mockBookings.On("ListByRoom", mock.Anything, int64(5), int64(10), domain.LiveStatuses).Return([]domain.Booking{}, nil)
	mockBookings.On("CreateWithReservation", mock.Anything, mock.Anything).Return(nil)

	r := newTestRouter(newTestService(mockBookings, mockRooms, mockProps), 1)

	body, _ := json.Marshal(gin.H{
		"property_id":    5,
		"room_id":        10,
		"bed_numbers":    []int{1, 2},
		"check_in_date":  "2026-09-10",
		"check_out_date": "2026-12-10",
		"guests": []gin.H{
			{"name": "Arjun", "age": 24, "relation": "SELF"},
			{"name": "Vikram", "age": 25, "relation": "FRIEND"},
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Booking domain.Booking `json:"booking"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1), resp.Data.Booking.CustomerID)
	assert.Regexp(t, `^BR\d{8}$`, resp.Data.Booking.Code)
}

func TestHandler_CreateBooking_ConflictStatus(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(sharingRoom(), nil)
	existing := []domain.Booking{{
		ID:           42,
		Code:         "BR12345678",
		Status:       domain.BookingConfirmed,
		BedNumbers:   []int{1},
		CheckInDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}}
	mockBookings.On("ListByRoom", mock.Anything, int64(5), int64(10), domain.LiveStatuses).Return(existing, nil)

	r := newTestRouter(newTestService(mockBookings, mockRooms, mockProps), 1)

	body, _ := json.Marshal(gin.H{
		"property_id":    5,
		"room_id":        10,
		"bed_numbers":    []int{1},
		"check_in_date":  "2026-09-10",
		"check_out_date": "2026-12-10",
		"guests":         []gin.H{{"name": "Arjun", "age": 24, "relation": "SELF"}},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "BOOKING_CONFLICT")
	assert.Contains(t, w.Body.String(), "BR12345678")
}

func TestHandler_CreateBooking_MissingGuests(t *testing.T) {
	r := newTestRouter(newTestService(new(MockBookingRepository), new(MockRoomRepository), new(MockPropertyRepository)), 1)

	body, _ := json.Marshal(gin.H{
		"property_id":    5,
		"room_id":        10,
		"check_in_date":  "2026-09-10",
		"check_out_date": "2026-12-10",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandler_CancelBooking_InvalidTransitionStatus(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	mockBookings.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Booking{ID: 7, Status: domain.BookingCheckedIn}, nil)

	r := newTestRouter(newTestService(mockBookings, new(MockRoomRepository), new(MockPropertyRepository)), 1)

	body, _ := json.Marshal(gin.H{"reason": "changed my mind"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/7/cancel", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TRANSITION")
}

func TestHandler_GetBooking_NotFoundStatus(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	mockBookings.On("GetByID", mock.Anything, int64(123)).Return(nil, &NotFoundError{Resource: "booking", ID: "123"})

	r := newTestRouter(newTestService(mockBookings, new(MockRoomRepository), new(MockPropertyRepository)), 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/123", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestHandler_GetBooking_BadID(t *testing.T) {
	r := newTestRouter(newTestService(new(MockBookingRepository), new(MockRoomRepository), new(MockPropertyRepository)), 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
