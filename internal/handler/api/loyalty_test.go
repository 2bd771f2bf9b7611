//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"car-rental-backend/internal/domain/user"
	"car-rental-backend/internal/handler/api"
	resdto "car-rental-backend/internal/handler/dto/response"
	"car-rental-backend/internal/usecase/commands"
	"car-rental-backend/internal/usecase/queries"
	"car-rental-backend/tests/common/httptest"
	"car-rental-backend/tests/common/testutil"
	commandsmock "car-rental-backend/tests/mock/commands"
	queriesmock "car-rental-backend/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type LoyaltyHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockLoyaltyCommands
	mockQueries  *queriesmock.MockLoyaltyQueries
	handler      *api.LoyaltyHandler

	authUserID uuid.UUID
}

func (s *LoyaltyHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockLoyaltyCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockLoyaltyQueries(s.mockCtrl)
	s.handler = api.NewLoyaltyHandler(s.mockCommands, s.mockQueries)

	s.authUserID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.authUserID)
		c.Set("user_role", user.RoleCustomer)
		c.Next()
	}

	s.router.GET("/loyalty/account", authMiddleware, s.handler.GetAccount)
	s.router.GET("/loyalty/transactions", authMiddleware, s.handler.ListTransactions)
	s.router.POST("/admin/loyalty/points", authMiddleware, s.handler.AddPoints)
}

func (s *LoyaltyHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestLoyaltyHandlerSuite(t *testing.T) {
	suite.Run(t, new(LoyaltyHandlerTestSuite))
}

func (s *LoyaltyHandlerTestSuite) TestGetAccount() {
	s.Run("success: returns 200 OK with the account", func() {
		view := &queries.LoyaltyAccountView{
			UserID:    s.authUserID,
			Points:    1250,
			Tier:      "silver",
			UpdatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		}
		s.mockQueries.EXPECT().GetAccount(gomock.Any(), s.authUserID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/loyalty/account", nil, "bearer-token")

		var response resdto.LoyaltyAccountResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(1250), response.Points)
		s.Equal("silver", response.Tier)
	})

	s.Run("success: user without an account reads as empty bronze", func() {
		view := &queries.LoyaltyAccountView{UserID: s.authUserID, Points: 0, Tier: "bronze"}
		s.mockQueries.EXPECT().GetAccount(gomock.Any(), s.authUserID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/loyalty/account", nil, "bearer-token")

		var response resdto.LoyaltyAccountResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(0), response.Points)
		s.Equal("bronze", response.Tier)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/loyalty/account", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

func (s *LoyaltyHandlerTestSuite) TestListTransactions() {
	s.Run("success: returns the ledger newest-first", func() {
		views := []*queries.LoyaltyTransactionView{
			{ID: uuid.New(), Points: 20, Type: "earned", Reason: "Booking abc - 2 days rental"},
			{ID: uuid.New(), Points: -100, Type: "redeemed", Reason: "Discount redemption"},
		}
		s.mockQueries.EXPECT().ListTransactions(gomock.Any(), s.authUserID).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/loyalty/transactions", nil, "bearer-token")

		var response []*resdto.LoyaltyTransactionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("earned", response[0].Type)
		s.Equal(int64(-100), response[1].Points)
	})
}

func (s *LoyaltyHandlerTestSuite) TestAddPoints() {
	url := "/admin/loyalty/points"
	reqBody := map[string]any{
		"user_id": uuid.New().String(),
		"points":  500,
		"reason":  "Manual adjustment",
	}

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().AddPoints(gomock.Any(), gomock.Any(), int64(500), "Manual adjustment").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: user_id", mutate: testutil.Field("user_id", nil)},
			{name: "missing field: points", mutate: testutil.Field("points", nil)},
			{name: "missing field: reason", mutate: testutil.Field("reason", nil)},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "insufficient balance",
				commandsError:  commands.ErrInsufficientPoints,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Insufficient point balance",
			},
			{
				name:           "zero delta",
				commandsError:  commands.ErrZeroPointDelta,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid point adjustment",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().AddPoints(gomock.Any(), gomock.Any(), int64(500), "Manual adjustment").
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
