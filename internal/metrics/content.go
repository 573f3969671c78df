package metrics

// ContentLoaded records the outcome of a content (re)load and, on success,
// the number of items now served.
func ContentLoaded(ok bool, posts, projects, pages, tags int) {
	if !ok {
		ContentReloads.WithLabelValues("failed").Inc()
		return
	}
	ContentReloads.WithLabelValues("ok").Inc()
	ContentItems.WithLabelValues("post").Set(float64(posts))
	ContentItems.WithLabelValues("project").Set(float64(projects))
	ContentItems.WithLabelValues("page").Set(float64(pages))
	ContentItems.WithLabelValues("tag").Set(float64(tags))
}

// PageRendered records a successful template render.
func PageRendered(template string) {
	PagesRendered.WithLabelValues(template).Inc()
}
