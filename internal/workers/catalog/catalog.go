// Package catalog lists the job workers shipped by the worker manager.
package catalog

import (
	"project-workers/pkg/registry"

	generateworkflow "project-workers/internal/workers/matching/generate-workflow"
	suggestemployees "project-workers/internal/workers/matching/suggest-employees"
	createrequestrecord "project-workers/internal/workers/request/create-request-record"
	notifysuggestedemployees "project-workers/internal/workers/request/notify-suggested-employees"
)

// Activities returns the activity definition of every worker.
func Activities() []registry.Activity {
	return []registry.Activity{
		suggestemployees.Activity(),
		generateworkflow.Activity(),
		createrequestrecord.Activity(),
		notifysuggestedemployees.Activity(),
	}
}

// Registry builds the activity registry for the shipped workers.
func Registry() *registry.ActivityRegistry {
	return registry.New(Activities()...)
}
