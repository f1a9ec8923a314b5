package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopping_lists_created_total",
		Help: "Shopping lists auto-created for users without an active list.",
	})
	itemsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopping_items_added_total",
		Help: "Items added to shopping lists.",
	})
	sharesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopping_list_shares_total",
		Help: "List shares created, by permission.",
	}, []string{"permission"})
	notificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopping_share_notification_failures_total",
		Help: "Share notification e-mails that could not be sent.",
	})
)
