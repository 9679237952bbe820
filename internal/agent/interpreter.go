package agent

import (
	"errors"
	"fmt"
	"strings"

	"omniauction/internal/auctionerrors"
	model "omniauction/internal/models"
	"omniauction/utils"
)

// AuctionAPI is the slice of the bid processor / registry surface the
// interpreter drives.
type AuctionAPI interface {
	ListProducts() []model.ProductSummary
	GetProduct(productID string) (model.ProductDetail, error)
	PlaceBid(productID, user string, amount float64) (model.Bid, error)
}

const (
	replyGreeting = "Hello! Welcome to OmniAuction. You can ask me to list available items, " +
		"get details about a product, or place a bid."
	replyNoProducts = "I couldn't find any products available for auction right now."
	replyWhichProduct = "I'm not sure which product you're asking about. Please say something like " +
		"'Tell me about the iPhone' or 'Show me item 1'."
	replyPickProductFirst = "Please select a product first by saying 'Tell me about [product name]'."
	replyNoAmount         = "I didn't catch the bid amount. Please specify an amount, for example: " +
		"'Bid $1200' or 'I want to bid 1200'."
	replyHelp = "I can help you with the following:\n" +
		"- 'List items' - Show all available auction items\n" +
		"- 'Tell me about [item]' - Get details about a specific item\n" +
		"- 'Bid [amount]' - Place a bid on the current item\n" +
		"- 'Help' - Show this help message"
	replyFallback = "I'm not sure how to help with that. You can ask me to list items, get details " +
		"about a product, or place a bid. Say 'help' for more options."
)

var (
	greetingWords = []string{"hello", "hi", "hey"}
	// "show" alone is not a listing cue: "show me details about X" must fall
	// through to the detail rule below.
	listWords     = []string{"list"}
	listPhrases   = []string{"show items", "show all", "what's available", "what do you have", "what items", "auction items"}
	detailPhrases = []string{"tell me about", "details about", "info on", "show me", "what is", "what's"}
	bidWords      = []string{"bid", "offer"}
)

// intentRule pairs a predicate with its handler. Rules are evaluated in
// priority order; the first match wins and no cross-category scoring happens.
type intentRule struct {
	name   string
	match  func(command string) bool
	handle func(ctx *DialogueContext, command string) string
}

// Interpreter turns free-form command text into auction actions and a
// natural-language reply. It is stateless across turns except through the
// DialogueContext passed to Handle.
type Interpreter struct {
	api   AuctionAPI
	rules []intentRule
}

// NewInterpreter creates an interpreter bound to the given auction API.
func NewInterpreter(api AuctionAPI) *Interpreter {
	in := &Interpreter{api: api}
	in.rules = []intentRule{
		{name: "greet", match: containsAnyWord(greetingWords), handle: in.greet},
		{name: "list", match: anyOf(containsAnyWord(listWords), containsAnyPhrase(listPhrases)), handle: in.list},
		{name: "detail", match: containsAnyPhrase(detailPhrases), handle: in.detail},
		{name: "bid", match: containsAnyWord(bidWords), handle: in.bid},
		{name: "help", match: containsAnyWord([]string{"help"}), handle: in.help},
	}
	return in
}

// Handle processes one turn of a session. Every path yields a reply; raw
// errors never reach the caller.
func (in *Interpreter) Handle(ctx *DialogueContext, text string) string {
	command := strings.ToLower(strings.TrimSpace(text))
	if command == "" {
		return replyFallback
	}

	for _, rule := range in.rules {
		if rule.match(command) {
			utils.Debug("interpreter: matched intent", map[string]any{"intent": rule.name})
			return rule.handle(ctx, command)
		}
	}
	return replyFallback
}

func (in *Interpreter) greet(ctx *DialogueContext, command string) string {
	return replyGreeting
}

func (in *Interpreter) list(ctx *DialogueContext, command string) string {
	products := in.api.ListProducts()
	if len(products) == 0 {
		return replyNoProducts
	}

	ctx.LastListed = products

	var b strings.Builder
	b.WriteString("Here are the items available for auction:\n")
	for i, p := range products {
		fmt.Fprintf(&b, "%d. %s - Current bid: $%.2f - %s\n",
			i+1, p.Name, p.HighestBid, utils.FormatRemaining(p.TimeRemaining))
	}
	b.WriteString("\nYou can say 'Tell me about item X' or 'Show me details about [product name]' to get more information.")
	return b.String()
}

func (in *Interpreter) detail(ctx *DialogueContext, command string) string {
	// A detail request without a prior listing still works: fetch the
	// catalog so name matching has something to match against.
	if len(ctx.LastListed) == 0 {
		ctx.LastListed = in.api.ListProducts()
	}

	target, ok := resolveProduct(command, ctx.LastListed)
	if !ok {
		return replyWhichProduct
	}

	// Look the product up fresh; the listed summary may be stale.
	detail, err := in.api.GetProduct(target.ProductID)
	if err != nil {
		utils.Warn("interpreter: product lookup failed", map[string]any{"product_id": target.ProductID, "error": err.Error()})
		return fmt.Sprintf("I couldn't find details for '%s'. Please check the product name and try again.", target.Name)
	}

	ctx.CurrentProductID = detail.ProductID

	return fmt.Sprintf("%s\n%s\nCurrent highest bid: $%.2f\nTime remaining: %s\n\n"+
		"Would you like to place a bid? If yes, just say 'Bid $X' where X is your bid amount.",
		strings.ToUpper(detail.Name), detail.Description, detail.HighestBid,
		utils.FormatRemaining(detail.TimeRemaining))
}

func (in *Interpreter) bid(ctx *DialogueContext, command string) string {
	if ctx.CurrentProductID == "" {
		// No current product: maybe the command itself names one.
		if target, ok := resolveProduct(command, ctx.LastListed); ok {
			ctx.CurrentProductID = target.ProductID
		} else {
			return replyPickProductFirst
		}
	}

	amount, ok := extractAmount(command)
	if !ok {
		return replyNoAmount
	}

	detail, err := in.api.GetProduct(ctx.CurrentProductID)
	if err != nil {
		utils.Warn("interpreter: current product vanished", map[string]any{"product_id": ctx.CurrentProductID, "error": err.Error()})
		ctx.CurrentProductID = ""
		return replyPickProductFirst
	}

	// Cheap pre-check for a clearer message; the bid processor's own check
	// below stays authoritative.
	if amount <= detail.HighestBid {
		return fmt.Sprintf("Your bid of $%.2f must be higher than the current highest bid of $%.2f.",
			amount, detail.HighestBid)
	}

	if _, err := in.api.PlaceBid(detail.ProductID, ctx.User(), amount); err != nil {
		return bidRejectionReply(err, amount)
	}

	return fmt.Sprintf("Your bid of $%.2f on %s has been placed!", amount, detail.Name)
}

func (in *Interpreter) help(ctx *DialogueContext, command string) string {
	return replyHelp
}

// bidRejectionReply translates a bid processor rejection into a reply.
func bidRejectionReply(err error, amount float64) string {
	switch {
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return fmt.Sprintf("Your bid of $%.2f is too low. %s.", amount, minimumFromError(err))
	case errors.Is(err, auctionerrors.ErrAuctionClosed):
		return "Sorry, that auction has already ended."
	case errors.Is(err, auctionerrors.ErrProductNotFound):
		return replyPickProductFirst
	case errors.Is(err, auctionerrors.ErrInvalidAmount):
		return replyNoAmount
	default:
		utils.Error("interpreter: bid failed", map[string]any{"error": err.Error()})
		return "I'm having trouble placing your bid. Please try again in a moment."
	}
}

// minimumFromError pulls the "minimum acceptable bid is X" fragment out of a
// too-low rejection so the reply can state the required minimum.
func minimumFromError(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, "minimum acceptable bid is"); idx >= 0 {
		return strings.TrimSpace(msg[idx:])
	}
	return "Please bid higher than the current highest bid"
}

// anyOf combines predicates; the rule fires when any of them matches.
func anyOf(predicates ...func(string) bool) func(string) bool {
	return func(command string) bool {
		for _, p := range predicates {
			if p(command) {
				return true
			}
		}
		return false
	}
}

// containsAnyPhrase matches when any phrase appears anywhere in the command.
func containsAnyPhrase(phrases []string) func(string) bool {
	return func(command string) bool {
		for _, phrase := range phrases {
			if strings.Contains(command, phrase) {
				return true
			}
		}
		return false
	}
}

// containsAnyWord matches whole words only, so "hi" does not fire on "this".
func containsAnyWord(words []string) func(string) bool {
	return func(command string) bool {
		for _, token := range strings.Fields(command) {
			token = strings.Trim(token, ".,!?")
			for _, word := range words {
				if token == word {
					return true
				}
			}
		}
		return false
	}
}
