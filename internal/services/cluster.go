package services

import "sort"

type cluster struct {
	canonical string
	total     int
	maxCount  int
}

// ClusterAnswers folds an answer multiset into display clusters for
// reporting. Items are processed in input order; each joins the first open
// cluster whose canonical label it resembles (first match wins, not best
// match), and the cluster's label follows its highest-count member.
//
// Membership checks only the current canonical label, never the full member
// history, so the grouping is not transitive and can depend on input order.
// Known limitation, accepted for a reporting view.
func ClusterAnswers(items []AnswerCount) []AnswerCount {
	clusters := make([]*cluster, 0, len(items))
	for _, item := range items {
		joined := false
		for _, c := range clusters {
			if AreSimilar(c.canonical, item.Text) {
				c.total += item.Count
				if item.Count > c.maxCount {
					c.canonical = item.Text
					c.maxCount = item.Count
				}
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, &cluster{canonical: item.Text, total: item.Count, maxCount: item.Count})
		}
	}
	sort.SliceStable(clusters, func(i, j int) bool { return clusters[i].total > clusters[j].total })
	out := make([]AnswerCount, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, AnswerCount{Text: c.canonical, Count: c.total})
	}
	return out
}
