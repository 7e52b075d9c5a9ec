// Package terminal is the interactive shell around the checkout engine: it
// reads operator commands, performs the backend round trips, and feeds the
// parsed results into the engine. The engine itself never touches the
// network.
package terminal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"dinglespos/checkout"
	"dinglespos/observability"
	"dinglespos/observability/logging"
)

// Store is the slice of the backend client the terminal needs.
type Store interface {
	GetItem(ctx context.Context, id string) (checkout.Product, error)
	GetMember(ctx context.Context, idOrQuery string) (*checkout.Member, error)
	GetMemberByPhone(ctx context.Context, phone string) (*checkout.Member, error)
	AddMember(ctx context.Context, firstName, lastName string, phone int64) (string, error)
	GivePoints(ctx context.Context, memberID string, points int64) error
	WithdrawPoints(ctx context.Context, memberID string, points int64) (int64, error)
}

// Options configures a Session.
type Options struct {
	Store          Store
	Prompt         Prompt
	Logger         *slog.Logger
	Output         io.Writer
	RequestTimeout time.Duration
}

// Session drives one checkout lane. All engine mutations happen on the
// goroutine running the command loop; only the point notifications leave it.
type Session struct {
	store    Store
	prompt   Prompt
	logger   *slog.Logger
	out      io.Writer
	metrics  *observability.TerminalMetrics
	timeout  time.Duration
	notifier *asyncNotifier

	engine   *checkout.OrderEngine
	checkout *checkout.CheckoutSession

	// generation identifies the order the lane is currently building.
	// Backend results are applied only when the generation they were
	// issued under is still current; anything else is a stale response to
	// an order that no longer exists.
	generation uint64
}

// requestToken ties a backend round trip to the order it was issued for.
type requestToken struct {
	id         uuid.UUID
	generation uint64
}

// NewSession wires a session from the given collaborators.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	metrics := observability.Terminal()
	s := &Session{
		store:   opts.Store,
		prompt:  opts.Prompt,
		logger:  logger,
		out:     out,
		metrics: metrics,
		timeout: timeout,
	}
	s.notifier = &asyncNotifier{
		store:   opts.Store,
		logger:  logger,
		metrics: metrics,
		timeout: timeout,
	}
	sink := &eventSink{logger: logger}
	s.engine = checkout.NewOrderEngine(agePrompt{prompt: opts.Prompt}, sink)
	s.checkout = checkout.NewCheckoutSession(s.engine, s.notifier)
	return s
}

// Engine exposes the order engine, mainly for tests and status rendering.
func (s *Session) Engine() *checkout.OrderEngine {
	return s.engine
}

// Run reads and executes operator commands until input ends, the operator
// quits, or the context is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.status("Ready. Type 'help' for commands.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, ok := s.prompt.Ask("> ")
		if !ok {
			break
		}
		if quit := s.HandleCommand(ctx, line); quit {
			break
		}
	}
	s.notifier.flush(s.timeout)
	return ctx.Err()
}

// HandleCommand executes a single operator command line and reports whether
// the session should end.
func (s *Session) HandleCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		s.printHelp()
	case "scan":
		if len(args) != 1 {
			s.status("Usage: scan <item id>")
			return false
		}
		s.handleScan(ctx, args[0])
	case "remove":
		if len(args) != 1 {
			s.status("Usage: remove <line number>")
			return false
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			s.status("Usage: remove <line number>")
			return false
		}
		s.engine.RemoveItem(index - 1)
		s.printOrder()
	case "member":
		s.handleInsertCard(ctx)
	case "signup":
		if len(args) != 3 {
			s.status("Usage: signup <first> <last> <phone>")
			return false
		}
		s.handleSignup(ctx, args[0], args[1], args[2])
	case "redeem":
		if len(args) != 1 {
			s.status("Usage: redeem <points>")
			return false
		}
		s.handleRedeem(ctx, args[0])
	case "order":
		s.printOrder()
	case "checkout":
		s.handleCheckout()
	case "confirm":
		s.handleConfirm(ctx)
	case "cancel":
		if err := s.checkout.Cancel(); err != nil {
			s.status("No checkout to cancel.")
			return false
		}
		s.metrics.CheckoutsCancelled.Inc()
		s.status("Checkout cancelled.")
	case "clear":
		s.engine.Clear()
		s.generation++
		s.status("Order cleared.")
	default:
		// A bare item id scans straight from the keyboard wedge.
		if _, err := strconv.Atoi(cmd); err == nil && len(args) == 0 {
			s.handleScan(ctx, cmd)
			return false
		}
		s.status(fmt.Sprintf("Unknown command %q. Type 'help'.", cmd))
	}
	return false
}

func (s *Session) beginRequest() requestToken {
	return requestToken{id: uuid.New(), generation: s.generation}
}

// stale reports and records a response that arrived for a previous order.
func (s *Session) stale(token requestToken) bool {
	if token.generation == s.generation {
		return false
	}
	s.metrics.StaleResultsDropped.Inc()
	s.logger.Info("discarded stale backend result",
		"requestId", token.id.String(),
		"requestGeneration", token.generation,
		"currentGeneration", s.generation)
	return true
}

func (s *Session) handleScan(ctx context.Context, id string) {
	s.status("Fetching item from backend...")
	token := s.beginRequest()
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	product, err := s.store.GetItem(reqCtx, id)
	if err != nil {
		s.metrics.Scans.WithLabelValues("not_found").Inc()
		s.logger.Info("item lookup failed", "itemId", id, "error", err)
		s.status("Item not found.")
		return
	}
	s.applyItem(token, product)
}

// applyItem feeds a looked-up product into the engine unless the order has
// moved on since the request was issued.
func (s *Session) applyItem(token requestToken, product checkout.Product) {
	if s.stale(token) {
		return
	}
	if err := s.engine.AddItem(product); err != nil {
		s.metrics.Scans.WithLabelValues("age_rejected").Inc()
		s.status("Customer is too young to purchase this item.")
		return
	}
	s.metrics.Scans.WithLabelValues("added").Inc()
	s.status("Item added.")
	s.printOrder()
}

func (s *Session) handleInsertCard(ctx context.Context) {
	query, ok := s.prompt.Ask("Enter member card ID or phone number: ")
	if !ok {
		return
	}
	s.status("Fetching member from backend...")
	token := s.beginRequest()
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	member, err := s.store.GetMember(reqCtx, query)
	if err != nil {
		member, err = s.store.GetMemberByPhone(reqCtx, query)
	}
	if err != nil {
		s.metrics.MemberLookups.WithLabelValues("not_found").Inc()
		s.logger.Info("member lookup failed", logging.MemberQuery("query", query), "error", err)
		s.status("Member not found.")
		return
	}
	s.applyMember(token, member)
}

// applyMember inserts a looked-up card unless the order has moved on.
func (s *Session) applyMember(token requestToken, member *checkout.Member) {
	if s.stale(token) {
		return
	}
	s.engine.ApplyMember(member)
	s.metrics.MemberLookups.WithLabelValues("inserted").Inc()
	s.status("Member inserted from backend.")
}

func (s *Session) handleSignup(ctx context.Context, first, last, phoneText string) {
	phone, err := strconv.ParseInt(phoneText, 10, 64)
	if err != nil {
		s.status("Phone number must be numeric.")
		return
	}
	s.status("Creating member on backend...")
	token := s.beginRequest()
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.store.AddMember(reqCtx, first, last, phone)
	if err != nil {
		s.logger.Warn("member signup failed", "error", err)
		s.status("Failed to create member on backend.")
		return
	}
	s.status("Member creation response: " + text)
	member, err := s.store.GetMemberByPhone(reqCtx, phoneText)
	if err != nil {
		s.metrics.MemberLookups.WithLabelValues("not_found").Inc()
		s.logger.Info("member fetch after signup failed",
			logging.MemberQuery("phone", phoneText), "error", err)
		return
	}
	s.applyMember(token, member)
}

func (s *Session) handleRedeem(ctx context.Context, pointsText string) {
	points, err := strconv.ParseInt(pointsText, 10, 64)
	if err != nil || points <= 0 {
		s.status("Usage: redeem <points>")
		return
	}
	member := s.engine.Member()
	if member == nil {
		s.status("No card inserted.")
		return
	}
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	granted, err := s.store.WithdrawPoints(reqCtx, member.MemberID, points)
	if err != nil || granted < 0 {
		s.logger.Info("point withdrawal failed", "memberId", member.MemberID, "error", err)
		s.status("Could not withdraw points.")
		return
	}
	s.status(fmt.Sprintf("Withdrew %d fuel points.", granted))
}

func (s *Session) handleCheckout() {
	if err := s.checkout.RequestCheckout(); err != nil {
		switch {
		case s.checkout.State() == checkout.StateAwaitingConfirmation:
			s.status("Checkout already pending. 'confirm' or 'cancel'.")
		default:
			s.status("Nothing to check out.")
		}
		return
	}
	s.printOrder()
	s.status("Confirm checkout? ('confirm' or 'cancel')")
}

func (s *Session) handleConfirm(ctx context.Context) {
	receipt, err := s.checkout.Confirm(ctx)
	if err != nil {
		s.status("No checkout to confirm.")
		return
	}
	s.generation++
	s.metrics.CheckoutsConfirmed.Inc()
	if receipt.PointsAwarded > 0 {
		s.metrics.FuelPointsAwarded.Add(float64(receipt.PointsAwarded))
	}
	s.printReceipt(receipt)
}

func (s *Session) status(message string) {
	fmt.Fprintln(s.out, message)
}

func (s *Session) printHelp() {
	fmt.Fprint(s.out, `Commands:
  scan <id>                 add an item (a bare item id also works)
  remove <n>                remove order line n
  member                    insert a member card by id or phone
  signup <first> <last> <phone>
  redeem <points>           withdraw fuel points from the inserted card
  order                     show the current order
  checkout / confirm / cancel
  clear                     empty the order
  quit
`)
}

func (s *Session) printOrder() {
	lines := s.engine.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "(order is empty)")
		return
	}
	for i, line := range lines {
		price := line.DiscountedUnitPrice.StringFixed(2)
		note := ""
		if line.Discounted {
			note = fmt.Sprintf(" (was $%s)", line.UnitPrice.StringFixed(2))
		}
		fmt.Fprintf(s.out, "%2d. %-24s x%-3d $%s%s\n", i+1, line.Name, line.Quantity, price, note)
	}
	fmt.Fprintf(s.out, "    Subtotal  $%s\n", s.engine.Subtotal().StringFixed(2))
	fmt.Fprintf(s.out, "    Discounts -$%s\n", s.engine.DiscountTotal().StringFixed(2))
	fmt.Fprintf(s.out, "    Total     $%s\n", s.engine.Total().StringFixed(2))
}

func (s *Session) printReceipt(receipt *checkout.Receipt) {
	fmt.Fprintln(s.out, "==== Dingles ====")
	for _, line := range receipt.Lines {
		fmt.Fprintf(s.out, "%-24s x%-3d $%s\n", line.Name, line.Quantity, line.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(s.out, "Total $%s\n", receipt.Total.StringFixed(2))
	if summary := receipt.FuelPointsSummary(); summary != "" {
		fmt.Fprintln(s.out, summary)
	}
	fmt.Fprintln(s.out, "Thank you for shopping at Dingles!")
}

// eventSink routes engine events into the lane log and event metrics.
type eventSink struct {
	logger *slog.Logger
}

func (s *eventSink) AppendEvent(evt *checkout.Event) {
	observability.Events().RecordEngineEvent(evt.Type)
	args := make([]any, 0, len(evt.Attributes)*2+2)
	args = append(args, "event", evt.Type)
	for key, value := range evt.Attributes {
		args = append(args, key, value)
	}
	s.logger.Info("engine event", args...)
}
