// Package seed loads the sample project catalogue.
package seed

import (
	"context"
	"errors"

	"github.com/Skotchmaster/projects_api/internal/logging"
	"github.com/Skotchmaster/projects_api/internal/models"
	"github.com/Skotchmaster/projects_api/internal/repo"
)

var SampleProjects = []models.Project{
	{Name: "AI-Powered Chatbot", Description: "A virtual assistant that uses natural language processing to help users with FAQs."},
	{Name: "E-Commerce Store", Description: "An online platform for selling electronics with real-time inventory and payment gateway."},
	{Name: "Weather Dashboard", Description: "A responsive app showing weather forecasts using public APIs."},
	{Name: "Task Manager", Description: "A to-do list app with project-based task grouping and due dates."},
	{Name: "Fitness Tracker", Description: "Mobile-first app that logs workouts, meals, and progress with charts."},
	{Name: "Budget Planner", Description: "A web app for tracking income, expenses, and financial goals."},
	{Name: "Portfolio Website", Description: "A personal portfolio site for showcasing work and projects."},
	{Name: "Blog CMS", Description: "A content management system for creating, editing, and publishing blog posts."},
	{Name: "Recipe App", Description: "An app to save, share, and discover recipes with ingredient filters."},
	{Name: "Event Scheduler", Description: "An app to create and manage events with calendar and RSVP system."},
	{Name: "Crypto Tracker", Description: "Tracks prices of major cryptocurrencies and shows historical trends."},
	{Name: "Online Quiz System", Description: "A system for creating timed quizzes and auto-grading results."},
	{Name: "Job Board", Description: "A portal where companies can post jobs and users can apply with resumes."},
	{Name: "Language Learning App", Description: "An interactive app that helps users learn new languages."},
	{Name: "News Aggregator", Description: "Fetches and categorizes news headlines from multiple sources."},
	{Name: "Movie Recommendation Engine", Description: "Suggests movies based on user ratings and genre preferences."},
	{Name: "Remote Work Dashboard", Description: "Tracks productivity, meetings, and tasks for remote teams."},
	{Name: "Music Streaming Service", Description: "Streams curated playlists and user-uploaded music."},
	{Name: "Inventory System", Description: "Manages stock levels, orders, and suppliers for small businesses."},
	{Name: "Online Voting System", Description: "A secure, anonymous voting platform with user authentication."},
}

// Projects inserts the sample projects, skipping names that already exist.
// It returns how many were added.
func Projects(ctx context.Context, r *repo.GormRepo) (int, error) {
	l := logging.FromContext(ctx).With("op", "seed.projects")

	added := 0
	for _, sample := range SampleProjects {
		p := sample
		if err := r.CreateProject(ctx, &p); err != nil {
			if errors.Is(err, repo.ErrProjectNameTaken) {
				l.Debug("seed_skip", "name", p.Name)
				continue
			}
			return added, err
		}
		added++
	}
	l.Info("seed_done", "added", added)
	return added, nil
}
