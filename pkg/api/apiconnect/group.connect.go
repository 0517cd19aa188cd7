package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsmart/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "splitsmart.v1.GroupService"

// These constants are the fully-qualified names of the RPCs defined in this
// service. They're exposed at runtime as Spec.Procedure and as the final
// two segments of the HTTP route.
const (
	// GroupServiceCreateGroupProcedure is the fully-qualified name of the GroupService's CreateGroup RPC.
	GroupServiceCreateGroupProcedure = "/splitsmart.v1.GroupService/CreateGroup"
	// GroupServiceGetGroupProcedure is the fully-qualified name of the GroupService's GetGroup RPC.
	GroupServiceGetGroupProcedure = "/splitsmart.v1.GroupService/GetGroup"
	// GroupServiceListGroupsProcedure is the fully-qualified name of the GroupService's ListGroups RPC.
	GroupServiceListGroupsProcedure = "/splitsmart.v1.GroupService/ListGroups"
	// GroupServiceUpdateGroupProcedure is the fully-qualified name of the GroupService's UpdateGroup RPC.
	GroupServiceUpdateGroupProcedure = "/splitsmart.v1.GroupService/UpdateGroup"
	// GroupServiceDeleteGroupProcedure is the fully-qualified name of the GroupService's DeleteGroup RPC.
	GroupServiceDeleteGroupProcedure = "/splitsmart.v1.GroupService/DeleteGroup"
	// GroupServiceCreateInviteProcedure is the fully-qualified name of the GroupService's CreateInvite RPC.
	GroupServiceCreateInviteProcedure = "/splitsmart.v1.GroupService/CreateInvite"
	// GroupServiceGetInviteProcedure is the fully-qualified name of the GroupService's GetInvite RPC.
	GroupServiceGetInviteProcedure = "/splitsmart.v1.GroupService/GetInvite"
	// GroupServiceJoinGroupProcedure is the fully-qualified name of the GroupService's JoinGroup RPC.
	GroupServiceJoinGroupProcedure = "/splitsmart.v1.GroupService/JoinGroup"
	// GroupServiceRemoveMemberProcedure is the fully-qualified name of the GroupService's RemoveMember RPC.
	GroupServiceRemoveMemberProcedure = "/splitsmart.v1.GroupService/RemoveMember"
	// GroupServiceGetGroupBalancesProcedure is the fully-qualified name of the GroupService's GetGroupBalances RPC.
	GroupServiceGetGroupBalancesProcedure = "/splitsmart.v1.GroupService/GetGroupBalances"
)

// GroupServiceClient is a client for the splitsmart.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	CreateInvite(context.Context, *connect.Request[api.CreateInviteRequest]) (*connect.Response[api.CreateInviteResponse], error)
	GetInvite(context.Context, *connect.Request[api.GetInviteRequest]) (*connect.Response[api.GetInviteResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
}

// NewGroupServiceClient constructs a client for the splitsmart.v1.GroupService service.
// The JSON codec is installed by default.
//
// The URL supplied here should be the base URL for the Connect server
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup: connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](
			httpClient,
			baseURL+GroupServiceCreateGroupProcedure,
			opts...,
		),
		getGroup: connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](
			httpClient,
			baseURL+GroupServiceGetGroupProcedure,
			opts...,
		),
		listGroups: connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](
			httpClient,
			baseURL+GroupServiceListGroupsProcedure,
			opts...,
		),
		updateGroup: connect.NewClient[api.UpdateGroupRequest, api.UpdateGroupResponse](
			httpClient,
			baseURL+GroupServiceUpdateGroupProcedure,
			opts...,
		),
		deleteGroup: connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](
			httpClient,
			baseURL+GroupServiceDeleteGroupProcedure,
			opts...,
		),
		createInvite: connect.NewClient[api.CreateInviteRequest, api.CreateInviteResponse](
			httpClient,
			baseURL+GroupServiceCreateInviteProcedure,
			opts...,
		),
		getInvite: connect.NewClient[api.GetInviteRequest, api.GetInviteResponse](
			httpClient,
			baseURL+GroupServiceGetInviteProcedure,
			opts...,
		),
		joinGroup: connect.NewClient[api.JoinGroupRequest, api.JoinGroupResponse](
			httpClient,
			baseURL+GroupServiceJoinGroupProcedure,
			opts...,
		),
		removeMember: connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](
			httpClient,
			baseURL+GroupServiceRemoveMemberProcedure,
			opts...,
		),
		getGroupBalances: connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](
			httpClient,
			baseURL+GroupServiceGetGroupBalancesProcedure,
			opts...,
		),
	}
}

// groupServiceClient implements GroupServiceClient.
type groupServiceClient struct {
	createGroup      *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup         *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups       *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	updateGroup      *connect.Client[api.UpdateGroupRequest, api.UpdateGroupResponse]
	deleteGroup      *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	createInvite     *connect.Client[api.CreateInviteRequest, api.CreateInviteResponse]
	getInvite        *connect.Client[api.GetInviteRequest, api.GetInviteResponse]
	joinGroup        *connect.Client[api.JoinGroupRequest, api.JoinGroupResponse]
	removeMember     *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	getGroupBalances *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
}

// CreateGroup calls splitsmart.v1.GroupService.CreateGroup.
func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

// GetGroup calls splitsmart.v1.GroupService.GetGroup.
func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

// ListGroups calls splitsmart.v1.GroupService.ListGroups.
func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

// UpdateGroup calls splitsmart.v1.GroupService.UpdateGroup.
func (c *groupServiceClient) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

// DeleteGroup calls splitsmart.v1.GroupService.DeleteGroup.
func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

// CreateInvite calls splitsmart.v1.GroupService.CreateInvite.
func (c *groupServiceClient) CreateInvite(ctx context.Context, req *connect.Request[api.CreateInviteRequest]) (*connect.Response[api.CreateInviteResponse], error) {
	return c.createInvite.CallUnary(ctx, req)
}

// GetInvite calls splitsmart.v1.GroupService.GetInvite.
func (c *groupServiceClient) GetInvite(ctx context.Context, req *connect.Request[api.GetInviteRequest]) (*connect.Response[api.GetInviteResponse], error) {
	return c.getInvite.CallUnary(ctx, req)
}

// JoinGroup calls splitsmart.v1.GroupService.JoinGroup.
func (c *groupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

// RemoveMember calls splitsmart.v1.GroupService.RemoveMember.
func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

// GetGroupBalances calls splitsmart.v1.GroupService.GetGroupBalances.
func (c *groupServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

// GroupServiceHandler is an implementation of the splitsmart.v1.GroupService service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	CreateInvite(context.Context, *connect.Request[api.CreateInviteRequest]) (*connect.Response[api.CreateInviteResponse], error)
	GetInvite(context.Context, *connect.Request[api.GetInviteRequest]) (*connect.Response[api.GetInviteResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
//
// By default, handlers support the Connect, gRPC, and gRPC-Web protocols with
// the JSON codec.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	groupServiceCreateGroupHandler := connect.NewUnaryHandler(
		GroupServiceCreateGroupProcedure,
		svc.CreateGroup,
		opts...,
	)
	groupServiceGetGroupHandler := connect.NewUnaryHandler(
		GroupServiceGetGroupProcedure,
		svc.GetGroup,
		opts...,
	)
	groupServiceListGroupsHandler := connect.NewUnaryHandler(
		GroupServiceListGroupsProcedure,
		svc.ListGroups,
		opts...,
	)
	groupServiceUpdateGroupHandler := connect.NewUnaryHandler(
		GroupServiceUpdateGroupProcedure,
		svc.UpdateGroup,
		opts...,
	)
	groupServiceDeleteGroupHandler := connect.NewUnaryHandler(
		GroupServiceDeleteGroupProcedure,
		svc.DeleteGroup,
		opts...,
	)
	groupServiceCreateInviteHandler := connect.NewUnaryHandler(
		GroupServiceCreateInviteProcedure,
		svc.CreateInvite,
		opts...,
	)
	groupServiceGetInviteHandler := connect.NewUnaryHandler(
		GroupServiceGetInviteProcedure,
		svc.GetInvite,
		opts...,
	)
	groupServiceJoinGroupHandler := connect.NewUnaryHandler(
		GroupServiceJoinGroupProcedure,
		svc.JoinGroup,
		opts...,
	)
	groupServiceRemoveMemberHandler := connect.NewUnaryHandler(
		GroupServiceRemoveMemberProcedure,
		svc.RemoveMember,
		opts...,
	)
	groupServiceGetGroupBalancesHandler := connect.NewUnaryHandler(
		GroupServiceGetGroupBalancesProcedure,
		svc.GetGroupBalances,
		opts...,
	)
	return "/splitsmart.v1.GroupService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			groupServiceCreateGroupHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			groupServiceGetGroupHandler.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			groupServiceListGroupsHandler.ServeHTTP(w, r)
		case GroupServiceUpdateGroupProcedure:
			groupServiceUpdateGroupHandler.ServeHTTP(w, r)
		case GroupServiceDeleteGroupProcedure:
			groupServiceDeleteGroupHandler.ServeHTTP(w, r)
		case GroupServiceCreateInviteProcedure:
			groupServiceCreateInviteHandler.ServeHTTP(w, r)
		case GroupServiceGetInviteProcedure:
			groupServiceGetInviteHandler.ServeHTTP(w, r)
		case GroupServiceJoinGroupProcedure:
			groupServiceJoinGroupHandler.ServeHTTP(w, r)
		case GroupServiceRemoveMemberProcedure:
			groupServiceRemoveMemberHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupBalancesProcedure:
			groupServiceGetGroupBalancesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.GroupService.CreateGroup"))
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.GroupService.GetGroup"))
}

func (UnimplementedGroupServiceHandler) ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.GroupService.ListGroups"))
}

func (UnimplementedGroupServiceHandler) UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.GroupService.UpdateGroup"))
}

func (UnimplementedGroupServiceHandler) DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.GroupService.DeleteGroup"))
}

func (UnimplementedGroupServiceHandler) CreateInvite(context.Context, *connect.Request[api.CreateInviteRequest]) (*connect.Response[api.CreateInviteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.GroupService.CreateInvite"))
}

func (UnimplementedGroupServiceHandler) GetInvite(context.Context, *connect.Request[api.GetInviteRequest]) (*connect.Response[api.GetInviteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.GroupService.GetInvite"))
}

func (UnimplementedGroupServiceHandler) JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.GroupService.JoinGroup"))
}

func (UnimplementedGroupServiceHandler) RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.GroupService.RemoveMember"))
}

func (UnimplementedGroupServiceHandler) GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("splitsmart.v1.GroupService.GetGroupBalances"))
}
