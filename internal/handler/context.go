package handler

type ContextKey string

var (
	UserCtxKey        ContextKey = "user"
	SessionCtxKey     ContextKey = "session"
	JobCtxKey         ContextKey = "job"
	ApplicationCtxKey ContextKey = "application"
	EmployeeCtxKey    ContextKey = "employee"
	SalesLeadCtxKey   ContextKey = "salesLead"
)
