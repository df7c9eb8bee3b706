//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-engine/internal/domain/discount"
	"storefront-engine/internal/handler/api"
	"storefront-engine/internal/usecase/commands"
	commandsmock "storefront-engine/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BasketHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockBasket   *commandsmock.MockBasketCommands
	mockCheckout *commandsmock.MockCheckoutCommands
	shopperID    uuid.UUID
}

func (s *BasketHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockBasket = commandsmock.NewMockBasketCommands(s.mockCtrl)
	s.mockCheckout = commandsmock.NewMockCheckoutCommands(s.mockCtrl)
	s.shopperID = uuid.New()

	basketHandler := api.NewBasketHandler(s.mockBasket)
	checkoutHandler := api.NewCheckoutHandler(s.mockCheckout)

	// Stand-in auth middleware injecting a fixed shopper.
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("shopper_id", s.shopperID)
		c.Next()
	}

	s.router.POST("/basket/items", authMiddleware, basketHandler.AddItem)
	s.router.GET("/basket", authMiddleware, basketHandler.View)
	s.router.POST("/basket/discount", authMiddleware, basketHandler.ApplyDiscount)
	s.router.POST("/checkout", authMiddleware, checkoutHandler.Checkout)
}

func (s *BasketHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *BasketHandlerTestSuite) doJSON(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer test")
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *BasketHandlerTestSuite) TestAddItem_Created() {
	lotID := uuid.New()
	s.mockBasket.EXPECT().
		AddToBasket(gomock.Any(), s.shopperID, lotID).
		Return(&commands.AddToBasketResult{
			Line: commands.BasketLine{
				LotID: lotID,
				Name:  "Widget M",
				Price: decimal.RequireFromString("25.00"),
			},
		}, nil)

	w := s.doJSON(http.MethodPost, "/basket/items", gin.H{"lot_id": lotID})

	s.Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), "Widget M")
}

func (s *BasketHandlerTestSuite) TestAddItem_OutOfStock() {
	lotID := uuid.New()
	s.mockBasket.EXPECT().
		AddToBasket(gomock.Any(), s.shopperID, lotID).
		Return(&commands.AddToBasketResult{OutOfStock: true}, nil)

	w := s.doJSON(http.MethodPost, "/basket/items", gin.H{"lot_id": lotID})

	s.Equal(http.StatusConflict, w.Code)
}

func (s *BasketHandlerTestSuite) TestAddItem_LotNotFound() {
	lotID := uuid.New()
	s.mockBasket.EXPECT().
		AddToBasket(gomock.Any(), s.shopperID, lotID).
		Return(nil, commands.ErrLotNotFound)

	w := s.doJSON(http.MethodPost, "/basket/items", gin.H{"lot_id": lotID})

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *BasketHandlerTestSuite) TestAddItem_InvalidBody() {
	w := s.doJSON(http.MethodPost, "/basket/items", gin.H{"lot_id": "not-a-uuid"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *BasketHandlerTestSuite) TestAddItem_Unauthorized() {
	req := httptest.NewRequest(http.MethodPost, "/basket/items", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *BasketHandlerTestSuite) TestView_OK() {
	s.mockBasket.EXPECT().
		ViewBasket(gomock.Any(), s.shopperID).
		Return(&commands.BasketView{
			Subtotal: decimal.RequireFromString("100.00"),
			Lines: []commands.BasketLine{
				{LotID: uuid.New(), Name: "Widget M", Price: decimal.RequireFromString("100.00")},
			},
			Discount: &commands.AppliedDiscount{
				Code:           "SAVE10",
				DiscountAmount: decimal.RequireFromString("10.00"),
				FinalTotal:     decimal.RequireFromString("90.00"),
			},
		}, nil)

	w := s.doJSON(http.MethodGet, "/basket", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "SAVE10")
}

func (s *BasketHandlerTestSuite) TestApplyDiscount_Rejected() {
	s.mockBasket.EXPECT().
		ApplyDiscount(gomock.Any(), s.shopperID, "EXPIRED1").
		Return(&commands.ApplyDiscountResult{
			Validation: discount.Result{Reason: discount.ReasonExpired},
		}, nil)

	w := s.doJSON(http.MethodPost, "/basket/discount", gin.H{"code": "expired1"})

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(w.Body.String(), "expired")
}

func (s *BasketHandlerTestSuite) TestApplyDiscount_EmptyBasket() {
	s.mockBasket.EXPECT().
		ApplyDiscount(gomock.Any(), s.shopperID, "SAVE10").
		Return(&commands.ApplyDiscountResult{EmptyBasket: true}, nil)

	w := s.doJSON(http.MethodPost, "/basket/discount", gin.H{"code": "SAVE10"})

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *BasketHandlerTestSuite) TestCheckout_Settled() {
	s.mockCheckout.EXPECT().
		Checkout(gomock.Any(), s.shopperID).
		Return(&commands.CheckoutResult{
			Status:  commands.CheckoutSettled,
			Charged: decimal.RequireFromString("90.00"),
		}, nil)

	w := s.doJSON(http.MethodPost, "/checkout", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "settled")
}

func (s *BasketHandlerTestSuite) TestCheckout_InsufficientBalance() {
	s.mockCheckout.EXPECT().
		Checkout(gomock.Any(), s.shopperID).
		Return(&commands.CheckoutResult{
			Status:   commands.CheckoutInsufficientBalance,
			Required: decimal.RequireFromString("90.00"),
			Balance:  decimal.RequireFromString("10.00"),
		}, nil)

	w := s.doJSON(http.MethodPost, "/checkout", nil)

	s.Equal(http.StatusPaymentRequired, w.Code)
}

func TestBasketHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BasketHandlerTestSuite))
}
