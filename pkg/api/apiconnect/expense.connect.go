package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsmart/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "splitsmart.v1.ExpenseService"

// These constants are the fully-qualified names of the RPCs defined in this
// service. They're exposed at runtime as Spec.Procedure and as the final
// two segments of the HTTP route.
const (
	// ExpenseServiceCreateExpenseProcedure is the fully-qualified name of the ExpenseService's CreateExpense RPC.
	ExpenseServiceCreateExpenseProcedure = "/splitsmart.v1.ExpenseService/CreateExpense"
	// ExpenseServiceGetExpenseProcedure is the fully-qualified name of the ExpenseService's GetExpense RPC.
	ExpenseServiceGetExpenseProcedure = "/splitsmart.v1.ExpenseService/GetExpense"
	// ExpenseServiceUpdateExpenseProcedure is the fully-qualified name of the ExpenseService's UpdateExpense RPC.
	ExpenseServiceUpdateExpenseProcedure = "/splitsmart.v1.ExpenseService/UpdateExpense"
	// ExpenseServiceDeleteExpenseProcedure is the fully-qualified name of the ExpenseService's DeleteExpense RPC.
	ExpenseServiceDeleteExpenseProcedure = "/splitsmart.v1.ExpenseService/DeleteExpense"
	// ExpenseServiceListExpensesProcedure is the fully-qualified name of the ExpenseService's ListExpenses RPC.
	ExpenseServiceListExpensesProcedure = "/splitsmart.v1.ExpenseService/ListExpenses"
	// ExpenseServicePreviewSplitProcedure is the fully-qualified name of the ExpenseService's PreviewSplit RPC.
	ExpenseServicePreviewSplitProcedure = "/splitsmart.v1.ExpenseService/PreviewSplit"
	// ExpenseServiceApplyExpensePatchProcedure is the fully-qualified name of the ExpenseService's ApplyExpensePatch RPC.
	ExpenseServiceApplyExpensePatchProcedure = "/splitsmart.v1.ExpenseService/ApplyExpensePatch"
	// ExpenseServiceExportGroupExpensesProcedure is the fully-qualified name of the ExpenseService's ExportGroupExpenses RPC.
	ExpenseServiceExportGroupExpensesProcedure = "/splitsmart.v1.ExpenseService/ExportGroupExpenses"
	// ExpenseServiceListCurrenciesProcedure is the fully-qualified name of the ExpenseService's ListCurrencies RPC.
	ExpenseServiceListCurrenciesProcedure = "/splitsmart.v1.ExpenseService/ListCurrencies"
)

// ExpenseServiceClient is a client for the splitsmart.v1.ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	ApplyExpensePatch(context.Context, *connect.Request[api.ApplyExpensePatchRequest]) (*connect.Response[api.ApplyExpensePatchResponse], error)
	ExportGroupExpenses(context.Context, *connect.Request[api.ExportGroupExpensesRequest]) (*connect.Response[api.ExportGroupExpensesResponse], error)
	ListCurrencies(context.Context, *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error)
}

// NewExpenseServiceClient constructs a client for the splitsmart.v1.ExpenseService service.
// The JSON codec is installed by default.
//
// The URL supplied here should be the base URL for the Connect server
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		createExpense: connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](
			httpClient,
			baseURL+ExpenseServiceCreateExpenseProcedure,
			opts...,
		),
		getExpense: connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](
			httpClient,
			baseURL+ExpenseServiceGetExpenseProcedure,
			opts...,
		),
		updateExpense: connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](
			httpClient,
			baseURL+ExpenseServiceUpdateExpenseProcedure,
			opts...,
		),
		deleteExpense: connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](
			httpClient,
			baseURL+ExpenseServiceDeleteExpenseProcedure,
			opts...,
		),
		listExpenses: connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](
			httpClient,
			baseURL+ExpenseServiceListExpensesProcedure,
			opts...,
		),
		previewSplit: connect.NewClient[api.PreviewSplitRequest, api.PreviewSplitResponse](
			httpClient,
			baseURL+ExpenseServicePreviewSplitProcedure,
			opts...,
		),
		applyExpensePatch: connect.NewClient[api.ApplyExpensePatchRequest, api.ApplyExpensePatchResponse](
			httpClient,
			baseURL+ExpenseServiceApplyExpensePatchProcedure,
			opts...,
		),
		exportGroupExpenses: connect.NewClient[api.ExportGroupExpensesRequest, api.ExportGroupExpensesResponse](
			httpClient,
			baseURL+ExpenseServiceExportGroupExpensesProcedure,
			opts...,
		),
		listCurrencies: connect.NewClient[api.ListCurrenciesRequest, api.ListCurrenciesResponse](
			httpClient,
			baseURL+ExpenseServiceListCurrenciesProcedure,
			opts...,
		),
	}
}

// expenseServiceClient implements ExpenseServiceClient.
type expenseServiceClient struct {
	createExpense       *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	getExpense          *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	updateExpense       *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	deleteExpense       *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	listExpenses        *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	previewSplit        *connect.Client[api.PreviewSplitRequest, api.PreviewSplitResponse]
	applyExpensePatch   *connect.Client[api.ApplyExpensePatchRequest, api.ApplyExpensePatchResponse]
	exportGroupExpenses *connect.Client[api.ExportGroupExpensesRequest, api.ExportGroupExpensesResponse]
	listCurrencies      *connect.Client[api.ListCurrenciesRequest, api.ListCurrenciesResponse]
}

// CreateExpense calls splitsmart.v1.ExpenseService.CreateExpense.
func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

// GetExpense calls splitsmart.v1.ExpenseService.GetExpense.
func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

// UpdateExpense calls splitsmart.v1.ExpenseService.UpdateExpense.
func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

// DeleteExpense calls splitsmart.v1.ExpenseService.DeleteExpense.
func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

// ListExpenses calls splitsmart.v1.ExpenseService.ListExpenses.
func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

// PreviewSplit calls splitsmart.v1.ExpenseService.PreviewSplit.
func (c *expenseServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

// ApplyExpensePatch calls splitsmart.v1.ExpenseService.ApplyExpensePatch.
func (c *expenseServiceClient) ApplyExpensePatch(ctx context.Context, req *connect.Request[api.ApplyExpensePatchRequest]) (*connect.Response[api.ApplyExpensePatchResponse], error) {
	return c.applyExpensePatch.CallUnary(ctx, req)
}

// ExportGroupExpenses calls splitsmart.v1.ExpenseService.ExportGroupExpenses.
func (c *expenseServiceClient) ExportGroupExpenses(ctx context.Context, req *connect.Request[api.ExportGroupExpensesRequest]) (*connect.Response[api.ExportGroupExpensesResponse], error) {
	return c.exportGroupExpenses.CallUnary(ctx, req)
}

// ListCurrencies calls splitsmart.v1.ExpenseService.ListCurrencies.
func (c *expenseServiceClient) ListCurrencies(ctx context.Context, req *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	return c.listCurrencies.CallUnary(ctx, req)
}

// ExpenseServiceHandler is an implementation of the splitsmart.v1.ExpenseService service.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	ApplyExpensePatch(context.Context, *connect.Request[api.ApplyExpensePatchRequest]) (*connect.Response[api.ApplyExpensePatchResponse], error)
	ExportGroupExpenses(context.Context, *connect.Request[api.ExportGroupExpensesRequest]) (*connect.Response[api.ExportGroupExpensesResponse], error)
	ListCurrencies(context.Context, *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
//
// By default, handlers support the Connect, gRPC, and gRPC-Web protocols with
// the JSON codec.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	expenseServiceCreateExpenseHandler := connect.NewUnaryHandler(
		ExpenseServiceCreateExpenseProcedure,
		svc.CreateExpense,
		opts...,
	)
	expenseServiceGetExpenseHandler := connect.NewUnaryHandler(
		ExpenseServiceGetExpenseProcedure,
		svc.GetExpense,
		opts...,
	)
	expenseServiceUpdateExpenseHandler := connect.NewUnaryHandler(
		ExpenseServiceUpdateExpenseProcedure,
		svc.UpdateExpense,
		opts...,
	)
	expenseServiceDeleteExpenseHandler := connect.NewUnaryHandler(
		ExpenseServiceDeleteExpenseProcedure,
		svc.DeleteExpense,
		opts...,
	)
	expenseServiceListExpensesHandler := connect.NewUnaryHandler(
		ExpenseServiceListExpensesProcedure,
		svc.ListExpenses,
		opts...,
	)
	expenseServicePreviewSplitHandler := connect.NewUnaryHandler(
		ExpenseServicePreviewSplitProcedure,
		svc.PreviewSplit,
		opts...,
	)
	expenseServiceApplyExpensePatchHandler := connect.NewUnaryHandler(
		ExpenseServiceApplyExpensePatchProcedure,
		svc.ApplyExpensePatch,
		opts...,
	)
	expenseServiceExportGroupExpensesHandler := connect.NewUnaryHandler(
		ExpenseServiceExportGroupExpensesProcedure,
		svc.ExportGroupExpenses,
		opts...,
	)
	expenseServiceListCurrenciesHandler := connect.NewUnaryHandler(
		ExpenseServiceListCurrenciesProcedure,
		svc.ListCurrencies,
		opts...,
	)
	return "/splitsmart.v1.ExpenseService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServiceCreateExpenseProcedure:
			expenseServiceCreateExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceGetExpenseProcedure:
			expenseServiceGetExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceUpdateExpenseProcedure:
			expenseServiceUpdateExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceDeleteExpenseProcedure:
			expenseServiceDeleteExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceListExpensesProcedure:
			expenseServiceListExpensesHandler.ServeHTTP(w, r)
		case ExpenseServicePreviewSplitProcedure:
			expenseServicePreviewSplitHandler.ServeHTTP(w, r)
		case ExpenseServiceApplyExpensePatchProcedure:
			expenseServiceApplyExpensePatchHandler.ServeHTTP(w, r)
		case ExpenseServiceExportGroupExpensesProcedure:
			expenseServiceExportGroupExpensesHandler.ServeHTTP(w, r)
		case ExpenseServiceListCurrenciesProcedure:
			expenseServiceListCurrenciesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedExpenseServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedExpenseServiceHandler struct{}

func (UnimplementedExpenseServiceHandler) CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.ExpenseService.CreateExpense"))
}

func (UnimplementedExpenseServiceHandler) GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.ExpenseService.GetExpense"))
}

func (UnimplementedExpenseServiceHandler) UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.ExpenseService.UpdateExpense"))
}

func (UnimplementedExpenseServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.ExpenseService.DeleteExpense"))
}

func (UnimplementedExpenseServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.ExpenseService.ListExpenses"))
}

func (UnimplementedExpenseServiceHandler) PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.ExpenseService.PreviewSplit"))
}

func (UnimplementedExpenseServiceHandler) ApplyExpensePatch(context.Context, *connect.Request[api.ApplyExpensePatchRequest]) (*connect.Response[api.ApplyExpensePatchResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.ExpenseService.ApplyExpensePatch"))
}

func (UnimplementedExpenseServiceHandler) ExportGroupExpenses(context.Context, *connect.Request[api.ExportGroupExpensesRequest]) (*connect.Response[api.ExportGroupExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.ExpenseService.ExportGroupExpenses"))
}

func (UnimplementedExpenseServiceHandler) ListCurrencies(context.Context, *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.ExpenseService.ListCurrencies"))
}
