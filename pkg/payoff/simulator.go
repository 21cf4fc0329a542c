package payoff

import (
	"fmt"

	"github.com/iwvelando/payoff-forecast/pkg/constants"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Simulator runs payoff simulations with a fixed horizon and logs notable
// events at debug level. A Simulator holds no state between runs and is safe
// for concurrent use.
type Simulator struct {
	logger    *zap.Logger
	maxMonths int
}

// NewSimulator creates a simulator. A non-positive maxMonths selects the
// default 30-year horizon.
func NewSimulator(logger *zap.Logger, maxMonths int) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxMonths <= 0 {
		maxMonths = constants.DefaultMaxMonths
	}
	return &Simulator{logger: logger, maxMonths: maxMonths}
}

// MaxMonths returns the simulation horizon.
func (s *Simulator) MaxMonths() int {
	return s.maxMonths
}

// SimulateFixed runs a fixed-payment timeline.
func SimulateFixed(balance, annualRate, payment decimal.Decimal, maxMonths int, purchases Schedule) (Result, error) {
	return (&Simulator{logger: zap.NewNop(), maxMonths: maxMonths}).Fixed(balance, annualRate, FixedPlan{Amount: payment}, purchases)
}

// SimulateVariable runs a timeline whose payment is resolved per month from
// plan.
func SimulateVariable(balance, annualRate decimal.Decimal, plan VariablePlan, maxMonths int, purchases Schedule) (Result, error) {
	return (&Simulator{logger: zap.NewNop(), maxMonths: maxMonths}).Variable(balance, annualRate, plan, purchases)
}

// SimulateMinimumPayment runs the declining minimum-payment baseline.
func SimulateMinimumPayment(balance, annualRate decimal.Decimal, policy MinimumPolicy, maxMonths int) (Result, error) {
	return (&Simulator{logger: zap.NewNop(), maxMonths: maxMonths}).MinimumPayment(balance, annualRate, policy)
}

// Fixed pays plan.Amount every month, capped at what is owed.
func (s *Simulator) Fixed(balance, annualRate decimal.Decimal, plan FixedPlan, purchases Schedule) (Result, error) {
	if err := validateInputs(balance, annualRate, s.maxMonths, purchases); err != nil {
		return Result{}, err
	}
	if plan.Amount.IsNegative() {
		return Result{}, fmt.Errorf("%w: payment is negative (%s)", ErrInvalidArgument, plan.Amount)
	}
	return s.run("payoff.Fixed", balance, annualRate, purchases, func(int, decimal.Decimal) decimal.Decimal {
		return plan.Amount
	}), nil
}

// Variable pays the plan's override for each month that has one and the
// plan default otherwise.
func (s *Simulator) Variable(balance, annualRate decimal.Decimal, plan VariablePlan, purchases Schedule) (Result, error) {
	if err := validateInputs(balance, annualRate, s.maxMonths, purchases); err != nil {
		return Result{}, err
	}
	if err := plan.validate(); err != nil {
		return Result{}, err
	}
	return s.run("payoff.Variable", balance, annualRate, purchases, func(month int, _ decimal.Decimal) decimal.Decimal {
		return plan.PaymentFor(month)
	}), nil
}

// MinimumPayment recomputes the payment every month from the balance owed at
// that point, so a balance-proportional minimum shrinks along with the debt.
func (s *Simulator) MinimumPayment(balance, annualRate decimal.Decimal, policy MinimumPolicy) (Result, error) {
	if err := validateInputs(balance, annualRate, s.maxMonths, nil); err != nil {
		return Result{}, err
	}
	if err := validatePolicy(policy); err != nil {
		return Result{}, err
	}
	return s.run("payoff.MinimumPayment", balance, annualRate, nil, func(_ int, owed decimal.Decimal) decimal.Decimal {
		return EffectiveMinimumPayment(policy, owed)
	}), nil
}

// run is the month loop shared by every strategy. requested receives the
// month index and the balance owed after purchases and interest.
func (s *Simulator) run(op string, balance, annualRate decimal.Decimal, purchases Schedule,
	requested func(month int, owed decimal.Decimal) decimal.Decimal) Result {

	if balance.IsZero() && len(purchases) == 0 {
		return Result{Months: Months(0), TotalInterest: decimal.Zero}
	}

	// maxMonths may be far larger than the rows produced.
	breakdown := make([]MonthRow, 0, min(s.maxMonths, constants.DefaultMaxMonths))
	totalInterest := decimal.Zero

	for month := 1; month <= s.maxMonths; month++ {
		purchase := purchases.AmountAt(month)
		balance = balance.Add(purchase)

		interest := MonthlyInterest(balance, annualRate)
		balance = balance.Add(interest)
		totalInterest = totalInterest.Add(interest)

		payment := requested(month, balance)
		if payment.GreaterThan(balance) {
			s.logger.Debug(fmt.Sprintf("month %d: capping payment %s to balance owed %s", month, payment, balance),
				zap.String("op", op),
			)
			payment = balance
		}
		balance = balance.Sub(payment)

		breakdown = append(breakdown, MonthRow{
			Month:    month,
			Purchase: purchase,
			Payment:  payment,
			Interest: interest,
			Balance:  balance,
		})

		if balance.IsZero() {
			return Result{
				Months:        Months(month),
				TotalInterest: totalInterest,
				Breakdown:     breakdown,
			}
		}
	}

	s.logger.Debug(fmt.Sprintf("balance %s still owed after %d months", balance.StringFixed(2), s.maxMonths),
		zap.String("op", op),
	)
	return NeverPaysOff()
}
