package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/valuefurniture-golang/internal/config"
	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"
)

// Braintree is the Gateway backed by a braintree-go client.
type Braintree struct {
	bt *braintree.Braintree
}

// NewBraintree builds the gateway handle from resolved credentials.
func NewBraintree(creds config.Braintree) (*Braintree, error) {
	if creds.MerchantID == "" || creds.PublicKey == "" || creds.PrivateKey == "" {
		return nil, errors.New("braintree credentials are not configured")
	}

	env, err := environment(creds.Environment)
	if err != nil {
		return nil, err
	}
	return &Braintree{bt: braintree.New(env, creds.MerchantID, creds.PublicKey, creds.PrivateKey)}, nil
}

func environment(name string) (braintree.Environment, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sandbox":
		return braintree.Sandbox, nil
	case "production":
		return braintree.Production, nil
	case "development":
		return braintree.Development, nil
	default:
		return braintree.Environment{}, fmt.Errorf("unknown braintree environment %q", name)
	}
}

func (g *Braintree) GenerateClientToken(ctx context.Context) (string, error) {
	token, err := g.bt.ClientToken().Generate(ctx)
	if err != nil {
		return "", fmt.Errorf("generate client token: %w", err)
	}
	return token, nil
}

func (g *Braintree) Sale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	tx, err := g.bt.Transaction().Create(ctx, &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             toGatewayAmount(req.Amount),
		PaymentMethodNonce: req.Nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: req.SubmitForSettlement,
		},
	})
	if err != nil {
		var btErr *braintree.BraintreeError
		if !errors.As(err, &btErr) {
			return nil, fmt.Errorf("submit sale: %w", err)
		}

		res := &SaleResult{Message: btErr.ErrorMessage}
		if btErr.Transaction != nil {
			res.Transaction = fromGateway(btErr.Transaction)
		}
		for _, ve := range btErr.All() {
			res.Errors = append(res.Errors, ValidationError{
				Code:      ve.Code,
				Attribute: ve.Attribute,
				Message:   ve.Message,
			})
		}
		return res, nil
	}

	return &SaleResult{Success: true, Transaction: fromGateway(tx)}, nil
}

func (g *Braintree) Find(ctx context.Context, id string) (*Transaction, error) {
	tx, err := g.bt.Transaction().Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find transaction %s: %w", id, err)
	}
	return fromGateway(tx), nil
}

func (g *Braintree) Refund(ctx context.Context, id string, amount decimal.Decimal) (*Transaction, error) {
	tx, err := g.bt.Transaction().Refund(ctx, id, toGatewayAmount(amount))
	if err != nil {
		return nil, fmt.Errorf("refund transaction %s: %w", id, err)
	}
	return fromGateway(tx), nil
}

// toGatewayAmount converts to the gateway's fixed-point amount in cents.
func toGatewayAmount(d decimal.Decimal) *braintree.Decimal {
	return braintree.NewDecimal(d.Round(2).Shift(2).IntPart(), 2)
}

func fromGatewayAmount(d *braintree.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return decimal.New(d.Unscaled, int32(-d.Scale))
}

func fromGateway(tx *braintree.Transaction) *Transaction {
	return &Transaction{
		ID:                tx.Id,
		Type:              tx.Type,
		Status:            string(tx.Status),
		Amount:            fromGatewayAmount(tx.Amount),
		ProcessorResponse: tx.ProcessorResponseText,
		CreatedAt:         tx.CreatedAt,
	}
}
