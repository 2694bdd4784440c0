// internal/workflow/templates.go
package workflow

import "project-workers/internal/models"

// Template is the static task breakdown for one request type.
type Template struct {
	EstimatedDuration int
	Tasks             []models.TaskDescriptor
}

// TemplateFor returns a fresh copy of the template for rt. ok is false for
// request types outside the catalog.
func TemplateFor(rt models.RequestType) (Template, bool) {
	switch rt {
	case models.RequestTypeWebDev:
		return Template{
			EstimatedDuration: 160,
			Tasks: []models.TaskDescriptor{
				{Name: "Requirements Analysis", Team: "Management", EstimatedHours: 16, RequiredSkills: []string{"Project Management", "Business Analysis"}},
				{Name: "UI/UX Design", Team: "Design", EstimatedHours: 32, RequiredSkills: []string{"Figma", "UI Design", "UX Research"}},
				{Name: "Frontend Development", Team: "Development", EstimatedHours: 48, RequiredSkills: []string{"React", "JavaScript", "CSS"}},
				{Name: "Backend Development", Team: "Development", EstimatedHours: 40, RequiredSkills: []string{"Node.js", "MongoDB", "REST API"}},
				{Name: "Testing & QA", Team: "QA", EstimatedHours: 16, RequiredSkills: []string{"Testing", "Automation"}},
				{Name: "Deployment", Team: "DevOps", EstimatedHours: 8, RequiredSkills: []string{"AWS", "Docker", "CI/CD"}},
			},
		}, true
	case models.RequestTypeAppDev:
		return Template{
			EstimatedDuration: 240,
			Tasks: []models.TaskDescriptor{
				{Name: "Requirements Analysis", Team: "Management", EstimatedHours: 24, RequiredSkills: []string{"Project Management", "Business Analysis"}},
				{Name: "UI/UX Design", Team: "Design", EstimatedHours: 40, RequiredSkills: []string{"Figma", "Mobile Design"}},
				{Name: "Mobile Development", Team: "Development", EstimatedHours: 96, RequiredSkills: []string{"React Native", "Flutter", "Mobile"}},
				{Name: "Backend API Development", Team: "Development", EstimatedHours: 48, RequiredSkills: []string{"Node.js", "REST API", "Database"}},
				{Name: "Testing & QA", Team: "QA", EstimatedHours: 24, RequiredSkills: []string{"Testing", "Mobile Testing"}},
				{Name: "App Store Deployment", Team: "DevOps", EstimatedHours: 8, RequiredSkills: []string{"App Store", "Play Store", "CI/CD"}},
			},
		}, true
	case models.RequestTypePrototype:
		return Template{
			EstimatedDuration: 80,
			Tasks: []models.TaskDescriptor{
				{Name: "Concept Design", Team: "Design", EstimatedHours: 16, RequiredSkills: []string{"UI Design", "Prototyping"}},
				{Name: "Rapid Development", Team: "Development", EstimatedHours: 56, RequiredSkills: []string{"React", "JavaScript", "Node.js"}},
				{Name: "Demo Preparation", Team: "Management", EstimatedHours: 8, RequiredSkills: []string{"Presentation", "Project Management"}},
			},
		}, true
	case models.RequestTypeResearch:
		return Template{
			EstimatedDuration: 80,
			Tasks: []models.TaskDescriptor{
				{Name: "Research & Analysis", Team: "Research", EstimatedHours: 80, RequiredSkills: []string{"Research", "Analysis", "Documentation"}},
			},
		}, true
	}
	return Template{}, false
}
