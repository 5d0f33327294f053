package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

const (
	intentShowProducts = "SHOW_PRODUCTS"
	intentSearch       = "SEARCH_PRODUCT"
	intentAddToCart    = "ADD_TO_CART"
	intentSuggest      = "SUGGEST_HOSPITAL_EQUIPMENT"
	intentCompare      = "COMPARE"
	intentBundle       = "BUNDLE"
	intentClearCart    = "CLEAR_CART"
	intentShowOrders   = "SHOW_ORDERS"
	intentInvoice      = "DOWNLOAD_ORDER_INVOICE"
	intentChat         = "CHAT"
)

var (
	reGreeting = regexp.MustCompile(`\b(hi|hello|hey|hii|hola|greetings)\b`)
	reSupport  = regexp.MustCompile(`\b(damage|broken|return|refund|not working|complain|support|help|issue|contact|phone)\b`)
	reThanks   = regexp.MustCompile(`\bthanks?\b`)

	reShowProducts = regexp.MustCompile(`\b(show|list|all|browse|view|get|see)\b.*\b(product|item|supply|medical|medic|catalog|equipment)\b`)
	reCompare      = regexp.MustCompile(`\b(compare|versus|vs|difference|between)\b`)
	reBundle       = regexp.MustCompile(`\b(bundle|package|set|deal|startup|complete)\b`)
	reSearch       = regexp.MustCompile(`\b(search|find|where is|look for)\b`)
	reAddToCart    = regexp.MustCompile(`\b(add|put|buy|order)\b.*\b(cart|basket)\b`)
	reSuggest      = regexp.MustCompile(`\b(hospital|clinic|opening|setup|suggest|recommend|physio|therapy|specialty|ward)\b`)
	reClearCart    = regexp.MustCompile(`\b(clear|empty|delete|remove)\b.*\b(cart|basket)\b`)
	reInvoice      = regexp.MustCompile(`\b(invoice|receipt|bill)\b`)
	reShowOrders   = regexp.MustCompile(`\b(order|past|history|my orders)\b`)

	reAddTarget = regexp.MustCompile(`add (.+?) to`)
)

// facilityKeywords maps facility descriptions to catalog search terms.
var facilityKeywords = []struct {
	match    []string
	keywords []string
}{
	{[]string{"physio", "rehab", "therapy"}, []string{"table", "traction", "ultrasound", "tms", "exercise", "physio", "gym"}},
	{[]string{"clinic", "opd"}, []string{"examination", "stethoscope", "bp monitor", "furniture", "weighing"}},
	{[]string{"icu", "critical"}, []string{"ventilator", "monitor", "icu bed", "infusion", "defibrillator"}},
	{[]string{"maternity", "gynec"}, []string{"delivery", "incubator", "warmer", "foetal", "maternity"}},
	{[]string{"surgical", "ot", "theatre"}, []string{"operating", "anesthesia", "surgical", "light", "autoclave"}},
	{[]string{"eye", "ophthal", "vision"}, []string{"slit lamp", "ophthalmoscope", "vision", "eye", "lens", "trial", "chair"}},
}

// Agent answers chat turns against the live catalog and order book.
type Agent struct {
	db  *gorm.DB
	llm *LLMClient
}

func NewAgent(db *gorm.DB, llm *LLMClient) *Agent {
	return &Agent{db: db, llm: llm}
}

// Run handles one chat turn. Rules decide the intent first; the model
// is only asked to fill slots for intents that need them, and a model
// failure degrades to rule-only behavior rather than an error.
func (a *Agent) Run(ctx context.Context, userID, message string) *Reply {
	saveMessage(a.db, userID, "user", message)

	msg := strings.ToLower(strings.TrimSpace(message))

	if reply := a.cannedReply(msg); reply != nil {
		saveMessage(a.db, userID, "assistant", reply.Response)
		return reply
	}

	intent := detectIntent(msg)

	var ext *Extraction
	if a.llm != nil && needsExtraction(intent) {
		prompt := fmt.Sprintf(
			"You are Medi-Match AI, the procurement assistant of RB Panchal Medical Supplies. "+
				"Intents: %s. For COMPARE fill product_names with two names. For BUNDLE fill department. "+
				`Return ONLY JSON: {"intent":"...","product_names":[],"department":"...","product_name":"...","quantity":1,"hospital_type":"..."}`+
				"\nUser: %s",
			strings.Join([]string{intentShowProducts, intentSearch, intentAddToCart, intentSuggest, intentCompare, intentBundle, intentClearCart, intentShowOrders, intentChat}, ", "),
			message,
		)
		if got, err := a.llm.ExtractJSON(ctx, prompt); err == nil {
			ext = got
			if intent == "" && got.Intent != "" && got.Intent != intentChat {
				intent = got.Intent
			}
		}
	}
	if ext == nil {
		ext = &Extraction{}
	}
	if ext.Quantity < 1 {
		ext.Quantity = 1
	}

	reply := a.dispatch(intent, userID, msg, ext)
	saveMessage(a.db, userID, "assistant", reply.Response)
	return reply
}

// cannedReply covers greetings, support requests and thanks without
// touching the database or the model.
func (a *Agent) cannedReply(msg string) *Reply {
	switch {
	case reGreeting.MatchString(msg):
		return &Reply{
			Response: "Hi there! I'm your Medi-Match assistant, powered by RB Panchal. I can help you set up a new clinic, find specialized equipment, or manage your orders. What's on your mind?",
			Actions: []Action{{
				Type:  ActionSuggestChips,
				Chips: []string{"Show All Products", "Suggest for Clinic", "Physiotherapy Setup", "Contact Support"},
			}},
		}
	case reSupport.MatchString(msg):
		return &Reply{
			Response: "I'm sorry to hear you're having an issue. Please contact our support team directly:\nCall/WhatsApp: +91-9876543210\nEmail: support@rbpanchal.com\n(Mon-Sat, 9 AM - 7 PM)",
			Actions: []Action{{
				Type:  ActionSuggestChips,
				Chips: []string{"My Orders", "Return Policy", "Speak to Agent"},
			}},
		}
	case reThanks.MatchString(msg):
		return &Reply{
			Response: "You're very welcome! Let me know if you need anything else to keep your facility running smoothly.",
			Actions:  []Action{},
		}
	}
	return nil
}

// detectIntent is ordered: broader patterns like SUGGEST must not
// shadow CLEAR_CART or SHOW_ORDERS, so the cart and order rules with
// stricter shapes run first.
func detectIntent(msg string) string {
	switch {
	case reShowProducts.MatchString(msg) || msg == "products" || msg == "items":
		return intentShowProducts
	case reCompare.MatchString(msg):
		return intentCompare
	case reBundle.MatchString(msg):
		return intentBundle
	case reSearch.MatchString(msg):
		return intentSearch
	case reAddToCart.MatchString(msg):
		return intentAddToCart
	case reClearCart.MatchString(msg):
		return intentClearCart
	case reInvoice.MatchString(msg):
		return intentInvoice
	case reSuggest.MatchString(msg):
		return intentSuggest
	case reShowOrders.MatchString(msg):
		return intentShowOrders
	}
	return ""
}

func needsExtraction(intent string) bool {
	switch intent {
	case intentAddToCart, intentSearch, intentSuggest, intentCompare, intentBundle, "":
		return true
	}
	return false
}

func (a *Agent) dispatch(intent, userID, msg string, ext *Extraction) *Reply {
	switch intent {
	case intentShowProducts:
		return a.showProducts()
	case intentSearch:
		return a.searchProduct(msg, ext)
	case intentAddToCart:
		return a.addToCart(msg, ext)
	case intentSuggest:
		return a.suggestEquipment(msg, ext)
	case intentCompare:
		return a.compare(msg, ext)
	case intentBundle:
		return a.bundle(msg, ext)
	case intentClearCart:
		return &Reply{
			Response: "Ready to clear your cart. Are you sure?",
			Actions:  []Action{{Type: ActionClearCart, Confirm: true}},
		}
	case intentInvoice:
		return a.latestInvoice(userID)
	case intentShowOrders:
		return a.showOrders(userID)
	}
	return &Reply{
		Response: "I'm here to help! I can show products, search for equipment, or manage your cart. What's on your mind?",
		Actions:  []Action{},
	}
}

func (a *Agent) showProducts() *Reply {
	products := fetchProducts(a.db, 40)
	if len(products) == 0 {
		return &Reply{
			Response: "I couldn't find any products in our catalog right now. Contact support for the offline catalog.",
			Actions:  []Action{},
		}
	}
	return &Reply{
		Response: "Here are our latest medical supplies and equipment. Tap any to see details!",
		Actions:  []Action{{Type: ActionShowProducts, Products: products}},
	}
}

func (a *Agent) searchProduct(msg string, ext *Extraction) *Reply {
	term := ext.ProductName
	if term == "" {
		for _, trigger := range []string{"show me", "search for", "find", "search", "where is"} {
			if idx := strings.Index(msg, trigger); idx != -1 {
				term = strings.TrimSpace(msg[idx+len(trigger):])
				break
			}
		}
	}
	if term == "" {
		term = msg
	}

	results := searchProducts(a.db, term)
	if len(results) == 0 {
		return &Reply{
			Response: fmt.Sprintf("I couldn't find %q in our online list. Please contact our sales team at +91-9876543210 for bespoke sourcing.", term),
			Actions:  []Action{},
		}
	}
	return &Reply{
		Response: fmt.Sprintf("I found %d matches for %q. These are verified medical-grade items.", len(results), term),
		Actions:  []Action{{Type: ActionShowProducts, Products: results}},
	}
}

func (a *Agent) addToCart(msg string, ext *Extraction) *Reply {
	term := ext.ProductName
	if term == "" {
		if m := reAddTarget.FindStringSubmatch(msg); m != nil {
			term = m[1]
		}
	}
	if term == "" {
		return &Reply{
			Response: "Which specific product would you like to add? (e.g., 'Add a Fowler Bed')",
			Actions:  []Action{},
		}
	}

	candidates := searchProducts(a.db, term)
	if len(candidates) == 0 {
		return &Reply{
			Response: fmt.Sprintf("I couldn't find %q in our catalog. Try searching first so I can match the exact item.", term),
			Actions:  []Action{},
		}
	}

	matched := candidates[0]
	variantID := firstVariantID(a.db, matched.ID)
	if variantID == 0 {
		return &Reply{
			Response: fmt.Sprintf("I found '%s', but it's currently on back-order.", matched.Title),
			Actions:  []Action{},
		}
	}
	return &Reply{
		Response: fmt.Sprintf("Added %d × %s to your cart!", ext.Quantity, matched.Title),
		Actions: []Action{{
			Type:     ActionAddToCart,
			Variants: []CartAddition{{VariantID: variantID, Qty: ext.Quantity}},
		}},
	}
}

func (a *Agent) suggestEquipment(msg string, ext *Extraction) *Reply {
	facility := ext.HospitalType
	if facility == "" {
		facility = msg
	}
	lower := strings.ToLower(facility)

	var keywords []string
	for _, fk := range facilityKeywords {
		for _, m := range fk.match {
			if strings.Contains(lower, m) {
				keywords = fk.keywords
				break
			}
		}
		if keywords != nil {
			break
		}
	}
	if keywords == nil {
		for _, w := range strings.Fields(lower) {
			if len(w) > 3 {
				keywords = append(keywords, w)
			}
		}
	}

	seen := map[uint]bool{}
	var suggestions []ProductCard
	for _, kw := range keywords {
		for _, p := range suggestForContext(a.db, kw, 20) {
			if !seen[p.ID] {
				seen[p.ID] = true
				suggestions = append(suggestions, p)
			}
		}
	}
	if len(suggestions) == 0 {
		suggestions = fetchProducts(a.db, 15)
	}
	if len(suggestions) > 12 {
		suggestions = suggestions[:12]
	}

	return &Reply{
		Response: fmt.Sprintf("Setting up a %s facility is a big step! Based on medical standards, here are the essential items you will need:", strings.ToUpper(facility)),
		Actions:  []Action{{Type: ActionShowProducts, Products: suggestions}},
	}
}

func (a *Agent) compare(msg string, ext *Extraction) *Reply {
	names := ext.ProductNames
	if len(names) < 2 {
		names = names[:0]
		for _, w := range strings.Fields(msg) {
			if len(w) > 4 {
				names = append(names, w)
			}
			if len(names) == 2 {
				break
			}
		}
	}

	var products []ProductCard
	for _, n := range names {
		if len(products) == 2 {
			break
		}
		if res := searchProducts(a.db, n); len(res) > 0 {
			products = append(products, res[0])
		}
	}
	if len(products) < 2 {
		return &Reply{
			Response: "I need two specific products to compare. Try 'Compare Semi-Fowler vs Full-Fowler'.",
			Actions:  []Action{},
		}
	}

	return &Reply{
		Response: fmt.Sprintf("Here is a side-by-side comparison of the %s and %s.", products[0].Title, products[1].Title),
		Actions: []Action{{
			Type: ActionCompare,
			Data: &CompareData{Products: products, Features: []string{"description"}},
		}},
	}
}

func (a *Agent) bundle(msg string, ext *Extraction) *Reply {
	dept := ext.Department
	if dept == "" {
		dept = msg
	}
	lower := strings.ToLower(dept)

	keywords := []string{"bed", "monitor", "furniture", "surgical"}
	if strings.Contains(lower, "icu") {
		keywords = []string{"icu bed", "monitor", "ventilator", "infusion"}
	} else if strings.Contains(lower, "physio") {
		keywords = []string{"traction", "ultrasound", "tms", "wax bath"}
	}

	var items []ProductCard
	for _, kw := range keywords {
		if res := searchProducts(a.db, kw); len(res) > 0 {
			items = append(items, res[0])
		}
	}

	return &Reply{
		Response: fmt.Sprintf("I've designed a professional %s startup bundle for you, covering the essentials at wholesale rates.", strings.ToUpper(dept)),
		Actions:  []Action{{Type: ActionShowProducts, Products: items}},
	}
}

func (a *Agent) latestInvoice(userID string) *Reply {
	orders := fetchOrdersForUser(a.db, userID)
	if len(orders) == 0 {
		return &Reply{
			Response: "We don't see any orders associated with your account yet, so there's no invoice to download.",
			Actions:  []Action{},
		}
	}
	latest := orders[0]
	return &Reply{
		Response: fmt.Sprintf("Downloading the invoice for your latest order, %s.", latest.OrderNumber),
		Actions:  []Action{{Type: ActionDownloadInvoice, OrderID: latest.ID}},
	}
}

func (a *Agent) showOrders(userID string) *Reply {
	orders := fetchOrdersForUser(a.db, userID)
	if len(orders) == 0 {
		return &Reply{
			Response: "We don't see any orders associated with your account yet. Let's place your first one!",
			Actions:  []Action{},
		}
	}
	return &Reply{
		Response: "Here are your recent procurement records with RB Panchal:",
		Actions:  []Action{{Type: ActionShowOrders, Orders: orders}},
	}
}
