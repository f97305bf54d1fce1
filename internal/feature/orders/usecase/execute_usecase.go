package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	dashboard "invest_backend/internal/feature/dashboard/domain/entity"
	"invest_backend/internal/feature/orders/domain"
	"invest_backend/internal/feature/orders/domain/entity"
	portfoliodomain "invest_backend/internal/feature/portfolios/domain"
	portfolioentity "invest_backend/internal/feature/portfolios/domain/entity"
)

const (
	rejectInsufficientFunds   = "insufficient funds"
	rejectInsufficientHolding = "insufficient holding"
)

// ExecutePending は PENDING の注文を古い順に直近の日足終値で約定させます。
//   - 価格が無い注文は PENDING のまま失敗としてカウントします。
//   - 指値に届かない注文は PENDING のままカウントしません。
//   - 資金・保有不足の注文は REJECTED にし、失敗としてカウントします。
func (u *OrderUsecase) ExecutePending(ctx context.Context) (ExecuteResult, error) {
	var res ExecuteResult

	pending, err := u.orders.ListPending(ctx)
	if err != nil {
		return res, fmt.Errorf("list pending orders: %w", err)
	}

	for i := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		o := &pending[i]

		price, ok, err := u.prices.LatestPrice(ctx, o.Symbol)
		if err != nil || !ok {
			slog.Warn("no price for pending order", "order_no", o.OrderNo, "symbol", o.Symbol, "error", err)
			res.Fail++
			continue
		}
		if !o.Fillable(price) {
			continue
		}

		filled, err := u.fill(ctx, o, price)
		switch {
		case errors.Is(err, domain.ErrOrderStateChanged):
			// 取消と競合した。取消側を優先する
			slog.Info("order changed before execution", "order_no", o.OrderNo)
		case err != nil:
			slog.Error("order execution failed", "order_no", o.OrderNo, "error", err)
			res.Fail++
		case filled:
			res.Success++
		default:
			res.Fail++
		}
	}

	slog.Info("pending orders processed", "total", len(pending), "success", res.Success, "fail", res.Fail)
	return res, nil
}

// fill は1件の注文を1トランザクションで約定または却下します。約定した場合 true を返します。
func (u *OrderUsecase) fill(ctx context.Context, o *entity.Order, price decimal.Decimal) (bool, error) {
	filled := false
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := u.portfolios.FindByID(ctx, o.PortfolioID)
		if err != nil {
			return err
		}
		amount := price.Mul(o.Quantity).Round(4)

		var reason string
		if o.Side == entity.SideBuy {
			reason, err = u.applyBuy(ctx, o, price, amount)
		} else {
			reason, err = u.applySell(ctx, o, amount)
		}
		if err != nil {
			return err
		}
		if reason != "" {
			o.Reject(reason)
			slog.Warn("order rejected", "order_no", o.OrderNo, "reason", reason)
			return u.orders.UpdateFromPending(ctx, o)
		}

		o.Execute(price, u.now())
		if err := u.orders.UpdateFromPending(ctx, o); err != nil {
			return err
		}
		orderID := o.ID
		txType := entity.TxBuy
		if o.Side == entity.SideSell {
			txType = entity.TxSell
		}
		if err := u.transactions.Create(ctx, &entity.Transaction{
			PortfolioID: p.ID,
			ClientID:    p.ClientID,
			OrderID:     &orderID,
			Type:        txType,
			Symbol:      o.Symbol,
			Quantity:    o.Quantity,
			Price:       price,
			Amount:      amount,
		}); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		if err := u.activities.Record(ctx, dashboard.ActivityOrderExecuted, "Order Executed", describe(o)); err != nil {
			return err
		}
		filled = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return filled, nil
}

// applyBuy は現金を引き落とし保有を加重平均で更新します。資金不足なら却下理由を返します。
func (u *OrderUsecase) applyBuy(ctx context.Context, o *entity.Order, price, amount decimal.Decimal) (string, error) {
	if err := u.portfolios.AdjustCash(ctx, o.PortfolioID, amount.Neg()); err != nil {
		if errors.Is(err, portfoliodomain.ErrInsufficientFunds) {
			return rejectInsufficientFunds, nil
		}
		return "", err
	}
	h, err := u.portfolios.FindHolding(ctx, o.PortfolioID, o.Symbol)
	if errors.Is(err, portfoliodomain.ErrHoldingNotFound) {
		h = &portfolioentity.Holding{PortfolioID: o.PortfolioID, Symbol: o.Symbol}
	} else if err != nil {
		return "", err
	}
	h.AddBuy(o.Quantity, price)
	return "", u.portfolios.SaveHolding(ctx, h)
}

// applySell は保有を減らし現金を入金します。保有がゼロになった銘柄は削除します。
func (u *OrderUsecase) applySell(ctx context.Context, o *entity.Order, amount decimal.Decimal) (string, error) {
	h, err := u.portfolios.FindHolding(ctx, o.PortfolioID, o.Symbol)
	if errors.Is(err, portfoliodomain.ErrHoldingNotFound) {
		return rejectInsufficientHolding, nil
	}
	if err != nil {
		return "", err
	}
	if h.Quantity.LessThan(o.Quantity) {
		return rejectInsufficientHolding, nil
	}
	if err := u.portfolios.AdjustCash(ctx, o.PortfolioID, amount); err != nil {
		return "", err
	}
	h.Quantity = h.Quantity.Sub(o.Quantity)
	if h.Quantity.IsZero() {
		return "", u.portfolios.DeleteHolding(ctx, h.ID)
	}
	return "", u.portfolios.SaveHolding(ctx, h)
}

// describe は "Buy 100 shares of AAPL" 形式の説明を返します。
func describe(o *entity.Order) string {
	verb := "Buy"
	if o.Side == entity.SideSell {
		verb = "Sell"
	}
	return fmt.Sprintf("%s %s shares of %s", verb, o.Quantity.String(), o.Symbol)
}
