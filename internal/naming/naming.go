// Package naming centralizes the conventions that map domain entities onto
// cluster object names, namespaces and label selectors.
package naming

import (
	"fmt"

	"k8s.io/apimachinery/pkg/labels"
)

// ComponentLabel is the label key every rendered workload carries with the component name.
const ComponentLabel = "app"

// Namespace returns the cluster namespace hosting every component of an application.
func Namespace(applicationName string) string {
	return applicationName
}

// ComponentSelector returns the label selector matching the pods, jobs and events of a component.
func ComponentSelector(componentName string) string {
	return labels.SelectorFromSet(labels.Set{ComponentLabel: componentName}).String()
}

// JobSelector matches the jobs spawned by a cron component.
func JobSelector(componentName string) string {
	return ComponentSelector(componentName)
}

// JobPodSelector matches the pods created for one job.
func JobPodSelector(jobName string) string {
	return fmt.Sprintf("job-name=%s", jobName)
}
