// Package categorize assigns a spending category to a transaction
// description using an ordered keyword rule table.
package categorize

import "strings"

// Uncategorized is assigned when no rule matches.
const Uncategorized = "Uncategorized"

// rule maps a set of keywords to a category. Rules are evaluated
// top-to-bottom and the first rule with any matching keyword wins, so order
// is part of the contract: specific merchants must appear before the generic
// rules that would otherwise shadow them.
type rule struct {
	category string
	keywords []string
}

var rules = []rule{
	{"Income", []string{"payroll", "direct dep", "salary", "deposit from", "tax ref"}},
	{"Fuel & Gas", []string{"shell", "exxon", "chevron", "sunoco", "marathon", "speedway", "bp ", "gas station", "fuel"}},
	{"Groceries & Shopping", []string{"walmart", "kroger", "aldi", "publix", "safeway", "wegmans", "trader joe", "whole foods", "costco", "sams club", "grocery"}},
	{"Food & Dining", []string{"mcdonald", "chipotle", "starbucks", "dunkin", "subway", "taco bell", "wendy", "pizza", "restaurant", "doordash", "grubhub", "uber eats"}},
	{"Online Shopping", []string{"amazon", "amzn", "ebay", "etsy", "temu", "aliexpress"}},
	{"Auto & Transport", []string{"uber", "lyft", "autozone", "jiffy lube", "parking", "toll", "dmv", "car wash"}},
	{"Pets", []string{"petco", "petsmart", "chewy", "vet clinic", "veterinary"}},
	{"Housing", []string{"mortgage", "rent payment", "property mgmt", "hoa dues", "homeowners"}},
	{"Utilities", []string{"electric", "water dept", "sewer", "gas company", "duke energy", "con ed", "national grid", "utility"}},
	{"Phone & Internet", []string{"verizon", "t-mobile", "tmobile", "at&t", "att ", "sprint"}},
	{"Cable & Internet", []string{"comcast", "xfinity", "spectrum", "cox comm", "frontier comm"}},
	{"Entertainment", []string{"cinema", "theatre", "theater", "ticketmaster", "steam games", "playstation", "xbox"}},
	{"Subscriptions", []string{"netflix", "spotify", "hulu", "disney plus", "apple.com/bill", "youtube premium", "subscription"}},
	{"Loan Payment", []string{"loan pmt", "loan payment", "lending", "sofi", "affirm", "student ln"}},
	{"Taxes", []string{"irs ", "usataxpymt", "tax payment", "state tax"}},
	{"Credit Card Payment", []string{"card pmt", "cardmember", "credit crd epay", "autopay", "e-payment"}},
	{"Bank Fees", []string{"overdraft", "service charge", "maintenance fee", "nsf fee", "wire fee", "atm fee"}},
	{"Education", []string{"tuition", "university", "college", "udemy", "coursera"}},
	{"Shopping", []string{"target", "best buy", "home depot", "lowes", "macys", "kohls", "marshalls", "tj maxx", "dollar"}},
}

// Lookup returns the category for a free-text description, or
// Uncategorized when nothing matches.
func Lookup(description string) string {
	desc := strings.ToLower(description)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(desc, kw) {
				return r.category
			}
		}
	}
	return Uncategorized
}

// Categories returns the category labels in priority order. Useful for
// audit displays and the rule-order regression test.
func Categories() []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.category
	}
	return out
}
