package api

// Expense is a recorded shared cost.
type Expense struct {
	ID               string   `json:"id"`
	GroupID          string   `json:"groupId"`
	Description      string   `json:"description"`
	Amount           float64  `json:"amount"`
	OriginalAmount   float64  `json:"originalAmount"`
	OriginalCurrency string   `json:"originalCurrency"`
	ConversionRate   *float64 `json:"conversionRate"`
	PaidBy           string   `json:"paidBy"`
	Participants     []Share  `json:"participants"`
	SplitType        string   `json:"splitType"`
	Date             string   `json:"date"`
	Tags             []string `json:"tags"`
	Attachments      []string `json:"attachments"`
	TransactionType  string   `json:"transactionType"`
	Location         string   `json:"location,omitempty"`
	CreatedAt        int64    `json:"createdAt"`
	UpdatedAt        int64    `json:"updatedAt"`
}

// ExpenseInput is an expense as entered by a user.
type ExpenseInput struct {
	GroupID          string   `json:"groupId"`
	Description      string   `json:"description"`
	OriginalAmount   float64  `json:"originalAmount"`
	OriginalCurrency string   `json:"originalCurrency"`
	Date             string   `json:"date"`
	PaidBy           string   `json:"paidBy"`
	Split            Split    `json:"split"`
	Tags             []string `json:"tags,omitempty"`
	Attachments      []string `json:"attachments,omitempty"`
	Location         string   `json:"location,omitempty"`
}

// ExpensePatch lists the fields to change on an existing expense. Omitted
// fields keep their current value.
type ExpensePatch struct {
	Description      *string   `json:"description,omitempty"`
	OriginalAmount   *float64  `json:"originalAmount,omitempty"`
	OriginalCurrency *string   `json:"originalCurrency,omitempty"`
	Date             *string   `json:"date,omitempty"`
	PaidBy           *string   `json:"paidBy,omitempty"`
	Tags             *[]string `json:"tags,omitempty"`
	Category         *string   `json:"category,omitempty"`
	Split            *Split    `json:"split,omitempty"`
}

type CreateExpenseRequest struct {
	Expense ExpenseInput `json:"expense"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense Expense `json:"expense"`
}

// UpdateExpenseRequest replaces every editable field of an expense. The
// expense stays in its group; Expense.GroupID is ignored.
type UpdateExpenseRequest struct {
	ExpenseID string       `json:"expenseId"`
	Expense   ExpenseInput `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

// ListExpensesRequest lists a group's expenses, newest first. A non-empty
// Tag keeps only expenses carrying it.
type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
	Tag     string `json:"tag,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

// PreviewSplitRequest resolves a split without saving anything.
type PreviewSplitRequest struct {
	GroupID  string  `json:"groupId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Split    Split   `json:"split"`
}

type PreviewSplitResponse struct {
	// Amount is the total in the group's master currency.
	Amount         float64  `json:"amount"`
	Currency       string   `json:"currency"`
	ConversionRate *float64 `json:"conversionRate"`
	Shares         []Share  `json:"shares"`
}

type ApplyExpensePatchRequest struct {
	ExpenseID string       `json:"expenseId"`
	Patch     ExpensePatch `json:"patch"`
}

type ApplyExpensePatchResponse struct {
	Expense Expense `json:"expense"`
}

type ExportGroupExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ExportGroupExpensesResponse struct {
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
}

type ListCurrenciesRequest struct{}

// Currency is one entry of the supported currency table.
type Currency struct {
	Code        string `json:"code"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	ZeroDecimal bool   `json:"zeroDecimal"`
}

type ListCurrenciesResponse struct {
	Currencies []Currency `json:"currencies"`
}
