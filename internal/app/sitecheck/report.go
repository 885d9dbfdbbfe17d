package sitecheck

import (
	"fmt"
	"io"
	"net/http"
)

// WriteReport 以人类可读的形式输出检查结果
func WriteReport(w io.Writer, r *Report) {
	fmt.Fprintf(w, "site: %s\n\n", r.Site)

	fmt.Fprintf(w, "robots.txt  %s  (HTTP %d)\n", verdict(r.Robots.OK()), r.Robots.StatusCode)
	for _, s := range r.Robots.Sitemaps {
		fmt.Fprintf(w, "  sitemap: %s\n", s)
	}
	writeIssues(w, r.Robots.Errors, r.Robots.Warnings)
	fmt.Fprintln(w)

	writeDocument(w, &r.Main)
	for i := range r.Children {
		writeDocument(w, &r.Children[i])
	}

	fmt.Fprintf(w, "result: %s\n", verdict(r.OK()))
}

func writeDocument(w io.Writer, d *DocumentReport) {
	fmt.Fprintf(w, "%s  %s  (HTTP %d, %s)\n", d.URL, verdict(d.OK()), d.StatusCode, d.Kind)
	if d.StatusCode == http.StatusOK {
		fmt.Fprintf(w, "  %d %s, %s\n", d.ItemCount, d.Kind.ItemLabel(), d.SizeFormatted)
		if d.ReportedURLs != "" {
			fmt.Fprintf(w, "  reported urls: %s\n", d.ReportedURLs)
		}
		if d.GenerationTime != "" {
			fmt.Fprintf(w, "  generation time: %sms\n", d.GenerationTime)
		}
		for _, s := range d.Samples {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	writeIssues(w, d.Errors, d.Warnings)
	fmt.Fprintln(w)
}

func writeIssues(w io.Writer, errs, warnings []string) {
	for _, e := range errs {
		fmt.Fprintf(w, "  error: %s\n", e)
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn)
	}
}

func verdict(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}
