//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"court-booking/internal/domain/booking"
	"court-booking/internal/domain/user"
	"court-booking/internal/handler/api"
	resdto "court-booking/internal/handler/dto/response"
	"court-booking/internal/handler/middleware"
	commandsmock "court-booking/internal/mocks/commands"
	queriesmock "court-booking/internal/mocks/queries"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/testutil"
	"court-booking/internal/testutil/builder"
	"court-booking/internal/testutil/httptest"
	"court-booking/internal/usecase/commands"
	"court-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	actor        user.Identity
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.actor = user.Identity{ID: uuid.New(), Email: "player@example.com", Role: user.RoleCustomer}

	s.router.Use(fakeAuth(&s.actor))
	s.router.POST("/bookings", s.handler.Create)
	s.router.GET("/bookings", s.handler.List)
	s.router.GET("/bookings/:id", s.handler.Get)
	s.router.PUT("/bookings/:id/status", s.handler.UpdateStatus)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

// fakeAuth stands in for RequireAuth; the identity is read at request time so tests can swap roles.
func fakeAuth(actor *user.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		middleware.SetIdentity(c, *actor)
		c.Next()
	}
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"

	b := builder.NewBookingBuilder()
	reqBody := b.BuildCreateRequestDTO()
	stored := b.BuildStored()
	result := &commands.CreateBookingResult{Booking: stored, PaymentRedirect: "https://checkout.example/session"}

	s.Run("success: returns 201 with payment redirect", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.CreateBookingInput) (*commands.CreateBookingResult, error) {
				s.Equal(s.actor, in.Customer)
				s.Equal(reqBody.TimeSlotID, in.TimeSlotID)
				s.Equal(reqBody.PlayerCount, in.PlayerCount)
				s.Nil(in.IdempotencyKey)
				return result, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.CreateBookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(stored.ID(), body.Booking.ID)
		s.Equal("pending", body.Booking.Status)
		s.Equal("https://checkout.example/session", body.PaymentRedirect)
		s.False(body.Replayed)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/bookings/" + stored.ID().String()})
	})

	s.Run("success: replay returns 200 and forwards the idempotency key", func() {
		key := uuid.New()
		replayed := &commands.CreateBookingResult{Booking: stored, IsReplayed: true}
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.CreateBookingInput) (*commands.CreateBookingResult, error) {
				s.Require().NotNil(in.IdempotencyKey)
				s.Equal(key, *in.IdempotencyKey)
				return replayed, nil
			}).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			map[string]string{"Idempotency-Key": key.String()})

		var body resdto.CreateBookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Replayed)
	})

	s.Run("error: 400 on malformed idempotency key", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			map[string]string{"Idempotency-Key": "not-a-uuid"})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "idempotency key")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseBooking{
			{name: "missing field: timeSlotId", mutate: testutil.Field("timeSlotId", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: courtId", mutate: testutil.Field("courtId", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: paymentMethod", mutate: testutil.Field("paymentMethod", nil), expectCode: http.StatusBadRequest},
			{name: "playerCount zero", mutate: testutil.Field("playerCount", 0), expectCode: http.StatusBadRequest},
			{name: "unknown payment method", mutate: testutil.Field("paymentMethod", "wallet"), expectCode: http.StatusBadRequest},
			{name: "timeSlotId not a uuid", mutate: testutil.Field("timeSlotId", "slot-1"), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{"slot taken", errs.Mark(errs.New("lost race"), commands.ErrSlotUnavailable), http.StatusConflict, "no longer available"},
			{"court closed", commands.ErrCourtNotBookable, http.StatusConflict, "not open"},
			{"slot not found", commands.ErrSlotNotFound, http.StatusNotFound, "Time slot not found"},
			{"player count", errs.Mark(errs.New("player count must be between 1 and 8"), commands.ErrValidation), http.StatusBadRequest, "Invalid request"},
			{"slot in past", commands.ErrSlotInPast, http.StatusBadRequest, "already started"},
			{"key reuse", commands.ErrIdempotencyReuse, http.StatusConflict, "Idempotency key"},
			{"gateway down", errs.Wrap(commands.ErrGatewayFailure, "create checkout"), http.StatusBadGateway, "Payment gateway"},
			{"unexpected", errors.New("database error"), http.StatusInternalServerError, "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	view := builder.NewBookingBuilder().BuildView()

	s.Run("success: returns the booking view", func() {
		s.mockQueries.EXPECT().Get(gomock.Any(), view.ID, s.actor).Return(&view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID, body.ID)
		s.Equal(view.Date, body.Date)
		s.Equal(view.StartTime, body.StartTime)
		s.Equal(view.TotalPrice, body.TotalPrice)
		s.Nil(body.Payment)
	})

	s.Run("success: includes payment details", func() {
		withPayment := view
		withPayment.Payment = &queries.PaymentView{TransactionID: "TXN1", Gateway: "stripe", Amount: view.TotalPrice, Currency: "vnd", Status: "pending"}
		s.mockQueries.EXPECT().Get(gomock.Any(), view.ID, gomock.Any()).Return(&withPayment, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().NotNil(body.Payment)
		s.Equal("TXN1", body.Payment.TransactionID)
		s.Equal("stripe", body.Payment.Gateway)
	})

	s.Run("error: 400 on invalid id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/abc", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})

	s.Run("error: 403 when the booking belongs to someone else", func() {
		s.mockQueries.EXPECT().Get(gomock.Any(), view.ID, gomock.Any()).Return(nil, queries.ErrForbidden).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: 404 when missing", func() {
		s.mockQueries.EXPECT().Get(gomock.Any(), view.ID, gomock.Any()).
			Return(nil, errs.Mark(errs.New("no rows"), queries.ErrBookingNotFound)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *BookingHandlerTestSuite) TestList() {
	courtID := uuid.New()

	s.Run("success: forwards filters and paging", func() {
		page := &queries.BookingPage{
			Items:  []queries.BookingView{builder.NewBookingBuilder().BuildView()},
			Total:  1,
			Limit:  10,
			Offset: 0,
		}
		s.mockQueries.EXPECT().List(gomock.Any(), queries.ListBookingsInput{
			Actor:    s.actor,
			Status:   "pending",
			CourtID:  courtID.String(),
			DateFrom: "2024-06-01",
			DateTo:   "2024-06-30",
			Limit:    10,
			Offset:   0,
		}).Return(page, nil).Times(1)

		path := "/bookings?status=pending&court_id=" + courtID.String() + "&date_from=2024-06-01&date_to=2024-06-30&limit=10"
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, path, nil, "bearer-token")

		var body resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(1, body.Total)
		s.Len(body.Items, 1)
		s.Equal(10, body.Limit)
	})

	s.Run("success: empty page serialises as an empty list", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).Return(&queries.BookingPage{Limit: 20}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		s.Contains(rec.Body.String(), `"items":[]`)
	})

	s.Run("error: 400 on non-numeric limit", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?limit=ten", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query parameters")
	})

	s.Run("error: 400 on invalid filter", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errs.New("bad date"), queries.ErrInvalidFilter)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?date_from=June", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid filter")
	})
}

// ================================================================================
// TestUpdateStatus
// ================================================================================

func (s *BookingHandlerTestSuite) TestUpdateStatus() {
	b := builder.NewBookingBuilder().WithPaymentMethod(booking.PaymentMethodCash)
	confirmed := b.WithStatus(booking.StatusConfirmed).BuildStored()
	path := "/bookings/" + confirmed.ID().String() + "/status"

	s.Run("success: owner confirms a cash booking", func() {
		s.actor.Role = user.RoleClubOwner
		defer func() { s.actor.Role = user.RoleCustomer }()

		s.mockCommands.EXPECT().UpdateStatus(gomock.Any(), commands.UpdateStatusInput{
			BookingID: confirmed.ID(),
			Actor:     s.actor,
			NewStatus: "confirmed",
		}).Return(confirmed, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, path, map[string]any{"status": "confirmed"}, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.Status)
		s.Equal("cash", body.PaymentMethod)
	})

	s.Run("error: 400 on unknown status", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, path, map[string]any{"status": "done"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: maps policy failures", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
		}{
			{"card booking confirms through payment", commands.ErrPaymentRequired, http.StatusConflict},
			{"customer confirming", commands.ErrForbidden, http.StatusForbidden},
			{"already cancelled", commands.ErrInvalidTransition, http.StatusConflict},
			{"missing booking", commands.ErrBookingNotFound, http.StatusNotFound},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, path, map[string]any{"status": "confirmed"}, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}
