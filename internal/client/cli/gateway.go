package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/gateway"
	"github.com/dmitrijs2005/storefront/internal/client/models"
)

// TerminalGateway stands in for the hosted payment UI. It shows the
// gateway order and asks for the payment id and signature the provider
// would return.
//
// An empty payment id cancels. "error <code> [detail]" reports a provider
// failure code instead.
type TerminalGateway struct {
	in  *bufio.Reader
	out io.Writer
}

var _ gateway.Gateway = (*TerminalGateway)(nil)

func NewTerminalGateway(in *bufio.Reader, out io.Writer) *TerminalGateway {
	return &TerminalGateway{in: in, out: out}
}

func (g *TerminalGateway) Open(ctx context.Context, order models.PaymentOrder) (gateway.Success, error) {
	if err := ctx.Err(); err != nil {
		return gateway.Success{}, err
	}
	fmt.Fprintf(g.out, "Payment of %s %s for order %s\n", order.Amount().StringFixed(2), order.Currency, order.GatewayOrderID)
	if order.CustomerEmail != "" {
		fmt.Fprintf(g.out, "Customer: %s %s\n", order.CustomerName, order.CustomerEmail)
	}

	id, err := GetSimpleText(g.in, "Payment id (empty to cancel)", g.out)
	if err != nil {
		return gateway.Success{}, gateway.FailureFromCode(gateway.CodeNetwork, err.Error())
	}
	if id == "" {
		return gateway.Success{}, gateway.Cancelled()
	}
	if f, ok := parseFailure(id); ok {
		return gateway.Success{}, f
	}

	sig, err := GetSimpleText(g.in, "Signature", g.out)
	if err != nil {
		return gateway.Success{}, gateway.FailureFromCode(gateway.CodeNetwork, err.Error())
	}
	return gateway.Success{GatewayOrderID: order.GatewayOrderID, PaymentID: id, Signature: sig}, nil
}

// parseFailure reads "error <code> [detail]".
func parseFailure(s string) (*gateway.Failure, bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 || fields[0] != "error" {
		return nil, false
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, false
	}
	return gateway.FailureFromCode(code, strings.Join(fields[2:], " ")), true
}
