package dashboard

import (
	"fmt"

	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
)

// Download filename prefixes.
const (
	prefixDashboard = "sentinel-dashboard"
	prefixEvents    = "sentinel-events"
)

// Preview renders the preview table for one category of the current dataset.
func (c *Controller) Preview(sel domain.Selection) (domain.Preview, error) {
	cat, err := domain.ParseSelection(string(sel))
	if err != nil {
		return domain.Preview{}, err
	}
	return domain.RenderPreview(c.Snapshot().Dataset.Of(cat), cat)
}

// Export serializes every raw record of one category.
func (c *Controller) Export(sel domain.Selection, f domain.Format) (domain.Download, error) {
	return c.exportCategory(sel, f, "")
}

// ExportPreview exports the category shown in a preview. The file holds the
// full category, not only the rendered rows.
func (c *Controller) ExportPreview(sel domain.Selection, f domain.Format) (domain.Download, error) {
	return c.exportCategory(sel, f, "-preview")
}

func (c *Controller) exportCategory(sel domain.Selection, f domain.Format, suffix string) (domain.Download, error) {
	cat, err := domain.ParseSelection(string(sel))
	if err != nil {
		return domain.Download{}, c.exportFailed(f, err)
	}
	records := domain.RecordsOf(c.Snapshot().Dataset.Of(cat))
	prefix := fmt.Sprintf("nasa-%s%s", sel, suffix)
	dl, err := domain.NewDownload(prefix, f, records)
	if err != nil {
		return domain.Download{}, c.exportFailed(f, err)
	}
	return c.exported(f, dl), nil
}

// ExportDashboard serializes the whole dataset in the API's response shape.
func (c *Controller) ExportDashboard() (domain.Download, error) {
	body, err := domain.DatasetJSON(c.Snapshot().Dataset)
	if err != nil {
		return domain.Download{}, c.exportFailed(domain.FormatJSON, err)
	}
	return c.exported(domain.FormatJSON, domain.Download{
		Filename:    domain.Filename(prefixDashboard, domain.FormatJSON),
		ContentType: domain.FormatJSON.ContentType(),
		Body:        []byte(body),
	}), nil
}

// ExportEvents serializes the aggregated, normalized events newest first.
func (c *Controller) ExportEvents(f domain.Format) (domain.Download, error) {
	dl, err := domain.NewDownload(prefixEvents, f, domain.EventRecords(c.Snapshot().Events))
	if err != nil {
		return domain.Download{}, c.exportFailed(f, err)
	}
	return c.exported(f, dl), nil
}

func (c *Controller) exported(f domain.Format, dl domain.Download) domain.Download {
	c.metrics.Exports.WithLabelValues(string(f), "success").Inc()
	c.logger.Info("export created", "format", f, "filename", dl.Filename, "bytes", len(dl.Body))
	return dl
}

func (c *Controller) exportFailed(f domain.Format, err error) error {
	c.metrics.Exports.WithLabelValues(string(f), "error").Inc()
	c.logger.Debug("export rejected", "format", f, "error", err)
	return err
}
