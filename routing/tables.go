package routing

import "github.com/crmarques/weddash/session"

var defaultTable = Table{
	"account":       "admin/accounts",
	"booking":       "admin/bookings",
	"category":      "admin/categories",
	"client":        "admin/clients",
	"event":         "admin/events",
	"event-planner": "admin/event-planners",
	"payment":       "admin/payments",
	"review":        "admin/reviews",
	"service":       "admin/services",
	"vendor":        "admin/vendors",
}

var eventPlannerTable = Table{
	"account":       "event-planner/profile",
	"booking":       "event-planner/bookings",
	"category":      "categories",
	"client":        "event-planner/clients",
	"event":         "event-planner/events",
	"event-planner": "event-planner/profile",
	"payment":       "event-planner/payments",
	"service":       "services",
	"vendor":        "vendors",
}

var vendorTable = Table{
	"account":  "vendor/profile",
	"booking":  "vendor/bookings",
	"category": "categories",
	"payment":  "vendor/payments",
	"review":   "vendor/reviews",
	"service":  "vendor/services",
	"vendor":   "vendor/profile",
}

var clientTable = Table{
	"account":       "client/profile",
	"booking":       "client/bookings",
	"category":      "categories",
	"event":         "client/events",
	"event-planner": "event-planners",
	"payment":       "client/payments",
	"review":        "client/reviews",
	"service":       "services",
	"vendor":        "vendors",
}

func builtinOverrides() Overrides {
	return Overrides{
		session.RoleEventPlanner: eventPlannerTable,
		session.RoleVendor:       vendorTable,
		session.RoleClient:       clientTable,
	}
}
