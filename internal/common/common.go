package common

// Shared state set for DealRecord verdicts and Bid statuses.
// Pending is the only non-terminal state.
const (
	Pending  = "Pending"
	Accepted = "Accepted"
	Rejected = "Rejected"
)

// Settlement decisions as they come off the wire.
const (
	AcceptDecision = "Accept"
	RejectDecision = "Reject"
)

// Deal kinds as they appear in the /deal/:kind path segment.
// farmerReq wraps a Listing, consumerReq wraps a Request.
const (
	KindFarmerReq   = "farmerReq"
	KindConsumerReq = "consumerReq"
)

// Principal roles.
const (
	RoleFarmer   = "farmer"
	RoleConsumer = "consumer"
	RoleAdmin    = "admin"
)

// Audit log actions.
const (
	ActionApproveListing   = "APPROVE_LISTING"
	ActionRejectListing    = "REJECT_LISTING"
	ActionDeleteListing    = "DELETE_LISTING"
	ActionApproveRequest   = "APPROVE_REQUEST"
	ActionRejectRequest    = "REJECT_REQUEST"
	ActionDeleteRequest    = "DELETE_REQUEST"
	ActionAcceptBid        = "ACCEPT_BID"
	ActionRejectBid        = "REJECT_BID"
	ActionSuspendUser      = "SUSPEND_USER"
	ActionVerifyUser       = "VERIFY_USER"
	ActionSendAnnouncement = "SEND_ANNOUNCEMENT"
)

func IsValidKind(kind string) bool {
	return kind == KindFarmerReq || kind == KindConsumerReq
}
