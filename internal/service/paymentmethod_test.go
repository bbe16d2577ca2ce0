package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tierforge/tierforge/internal/api/dto"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/testutil"
	"github.com/tierforge/tierforge/internal/types"
)

type PaymentMethodServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PaymentMethodService
	now     time.Time
}

func TestPaymentMethodService(t *testing.T) {
	suite.Run(t, new(PaymentMethodServiceSuite))
}

func (s *PaymentMethodServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.now = time.Date(2027, 5, 15, 12, 0, 0, 0, time.UTC)
	svc := &paymentMethodService{
		ServiceParams: ServiceParams{
			Logger:            s.GetLogger(),
			Config:            s.GetConfig(),
			Cache:             s.GetCache(),
			CatalogRepo:       s.GetStores().Catalog,
			TransactionRepo:   s.GetStores().Transaction,
			PaymentMethodRepo: s.GetStores().PaymentMethod,
			GatewayRegistry:   s.GetGatewayRegistry(),
			RetryPolicy:       testutil.FastRetryPolicy(),
		},
		now: func() time.Time { return s.now },
	}
	s.service = svc
}

func (s *PaymentMethodServiceSuite) addCard(customerID string, expMonth, expYear int, setDefault bool) *dto.PaymentMethodResponse {
	resp, err := s.service.AddPaymentMethod(s.GetContext(), &dto.AddPaymentMethodRequest{
		CustomerID:   customerID,
		Type:         types.PaymentMethodTypeCard,
		SetAsDefault: setDefault,
		Card: &dto.CardInput{
			Number:     "4242 4242 4242 4242",
			ExpMonth:   expMonth,
			ExpYear:    expYear,
			HolderName: "Test Holder",
		},
	})
	s.Require().NoError(err)
	return resp
}

func (s *PaymentMethodServiceSuite) TestAddPaymentMethod_Card() {
	resp := s.addCard("cust_1", 12, 2030, false)

	s.Require().NotNil(resp.Card)
	s.Equal(types.CardBrandVisa, resp.Card.Brand)
	s.Equal("4242", resp.Card.Last4)
	s.Equal("424242******4242", resp.Card.MaskedNumber)
	s.Equal("Test Holder", resp.Card.HolderName)

	// First method for a customer is the default even when not requested.
	s.True(resp.IsDefault)
}

func (s *PaymentMethodServiceSuite) TestAddPaymentMethod_RejectsBadCard() {
	_, err := s.service.AddPaymentMethod(s.GetContext(), &dto.AddPaymentMethodRequest{
		CustomerID: "cust_1",
		Type:       types.PaymentMethodTypeCard,
		Card: &dto.CardInput{
			Number:   "4242424242424241", // fails Luhn
			ExpMonth: 12,
			ExpYear:  2030,
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// Details must match the declared type.
	_, err = s.service.AddPaymentMethod(s.GetContext(), &dto.AddPaymentMethodRequest{
		CustomerID: "cust_1",
		Type:       types.PaymentMethodTypeCard,
		Paypal:     &dto.PaypalInput{Email: "buyer@example.com"},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentMethodServiceSuite) TestAddPaymentMethod_BankAccount() {
	resp, err := s.service.AddPaymentMethod(s.GetContext(), &dto.AddPaymentMethodRequest{
		CustomerID: "cust_1",
		Type:       types.PaymentMethodTypeBankAccount,
		BankAccount: &dto.BankAccountInput{
			BankName:      "Test Bank",
			AccountNumber: "000123456789",
			RoutingNumber: "110000000",
			AccountType:   "checking",
		},
	})
	s.Require().NoError(err)

	s.Require().NotNil(resp.BankAccount)
	s.Equal("6789", resp.BankAccount.AccountLast4)
	s.Equal("0000", resp.BankAccount.RoutingLast4)
}

func (s *PaymentMethodServiceSuite) TestDefaultSelection() {
	first := s.addCard("cust_1", 12, 2030, false)
	second := s.addCard("cust_1", 6, 2031, false)

	// Second method does not displace the default.
	s.False(second.IsDefault)

	// Explicitly requested default displaces it.
	third := s.addCard("cust_1", 3, 2032, true)
	s.True(third.IsDefault)

	reloaded, err := s.service.GetPaymentMethod(s.GetContext(), first.ID)
	s.Require().NoError(err)
	s.False(reloaded.IsDefault)

	// SetDefaultPaymentMethod switches it back.
	_, err = s.service.SetDefaultPaymentMethod(s.GetContext(), "cust_1", first.ID)
	s.Require().NoError(err)

	list, err := s.service.ListPaymentMethods(s.GetContext(), "cust_1")
	s.Require().NoError(err)
	s.Require().Len(list.Items, 3)
	defaults := 0
	for _, pm := range list.Items {
		if pm.IsDefault {
			defaults++
			s.Equal(first.ID, pm.ID)
		}
	}
	s.Equal(1, defaults)
}

func (s *PaymentMethodServiceSuite) TestSetDefaultPaymentMethod_WrongCustomer() {
	pm := s.addCard("cust_1", 12, 2030, false)

	_, err := s.service.SetDefaultPaymentMethod(s.GetContext(), "cust_other", pm.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentMethodServiceSuite) TestUpdatePaymentMethod() {
	pm := s.addCard("cust_1", 12, 2027, false)

	month := 6
	year := 2031
	holder := "New Holder"
	updated, err := s.service.UpdatePaymentMethod(s.GetContext(), pm.ID, &dto.UpdatePaymentMethodRequest{
		CardExpMonth:   &month,
		CardExpYear:    &year,
		CardHolderName: &holder,
		Metadata:       types.Metadata{"source": "portal"},
	})
	s.Require().NoError(err)

	s.Equal(6, updated.Card.ExpMonth)
	s.Equal(2031, updated.Card.ExpYear)
	s.Equal("New Holder", updated.Card.HolderName)
	s.Equal("portal", updated.Metadata["source"])

	// Masked number and last4 are immutable.
	s.Equal("424242******4242", updated.Card.MaskedNumber)
	s.Equal("4242", updated.Card.Last4)
}

func (s *PaymentMethodServiceSuite) TestUpdatePaymentMethod_CardFieldsOnCardOnly() {
	resp, err := s.service.AddPaymentMethod(s.GetContext(), &dto.AddPaymentMethodRequest{
		CustomerID: "cust_1",
		Type:       types.PaymentMethodTypePaypal,
		Paypal:     &dto.PaypalInput{Email: "buyer@example.com"},
	})
	s.Require().NoError(err)

	month := 6
	_, err = s.service.UpdatePaymentMethod(s.GetContext(), resp.ID, &dto.UpdatePaymentMethodRequest{
		CardExpMonth: &month,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentMethodServiceSuite) TestDeletePaymentMethod_PromotesNextDefault() {
	first := s.addCard("cust_1", 12, 2030, false)
	second := s.addCard("cust_1", 6, 2031, false)

	s.Require().NoError(s.service.DeletePaymentMethod(s.GetContext(), first.ID))

	_, err := s.service.GetPaymentMethod(s.GetContext(), first.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	promoted, err := s.service.GetPaymentMethod(s.GetContext(), second.ID)
	s.Require().NoError(err)
	s.True(promoted.IsDefault)
}

func (s *PaymentMethodServiceSuite) TestCheckForExpiringPaymentMethods() {
	// now is 2027-05-15. A card printed 05/2027 expires 2027-06-01, a
	// card printed 06/2027 expires 2027-07-01.
	expiringSoon := s.addCard("cust_1", 5, 2027, false)
	expiringLater := s.addCard("cust_1", 6, 2027, false)
	s.addCard("cust_1", 12, 2030, false)

	within30, err := s.service.CheckForExpiringPaymentMethods(s.GetContext(), 30)
	s.Require().NoError(err)
	s.Require().Len(within30, 1)
	s.Equal(expiringSoon.ID, within30[0].ID)
	s.Equal("2027-06-01T00:00:00Z", within30[0].ExpiresAt)

	within60, err := s.service.CheckForExpiringPaymentMethods(s.GetContext(), 60)
	s.Require().NoError(err)
	s.Len(within60, 2)
	ids := []string{within60[0].ID, within60[1].ID}
	s.Contains(ids, expiringSoon.ID)
	s.Contains(ids, expiringLater.ID)

	_, err = s.service.CheckForExpiringPaymentMethods(s.GetContext(), -1)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
