package models

import "time"

// ClusterStats is a point-in-time structural snapshot of the cluster
type ClusterStats struct {
	TotalDocs    int64
	PrimaryDocs  int64
	ReplicaDocs  int64

	TotalStorageBytes   int64
	PrimaryStorageBytes int64
	ReplicaStorageBytes int64

	TotalShards   int64
	PrimaryShards int64
	PrimaryRatio  float64

	CollectedAt time.Time
}

// NewClusterStats builds a snapshot, splitting documents and storage into
// primary and replica portions using the primary-to-total shard ratio. When
// shard counts are unavailable everything is attributed to primaries.
func NewClusterStats(totalDocs, storageBytes, totalShards, primaryShards int64, collectedAt time.Time) *ClusterStats {
	stats := &ClusterStats{
		TotalDocs:         totalDocs,
		TotalStorageBytes: storageBytes,
		TotalShards:       totalShards,
		PrimaryShards:     primaryShards,
		CollectedAt:       collectedAt,
	}

	if totalShards > 0 && primaryShards > 0 {
		stats.PrimaryRatio = float64(primaryShards) / float64(totalShards)
	} else {
		stats.PrimaryRatio = 1.0
	}

	stats.PrimaryDocs = int64(float64(totalDocs) * stats.PrimaryRatio)
	stats.ReplicaDocs = totalDocs - stats.PrimaryDocs

	stats.PrimaryStorageBytes = int64(float64(storageBytes) * stats.PrimaryRatio)
	stats.ReplicaStorageBytes = storageBytes - stats.PrimaryStorageBytes

	return stats
}

// PrimaryStorageGB returns primary storage in decimal gigabytes
func (s *ClusterStats) PrimaryStorageGB() float64 {
	return float64(s.PrimaryStorageBytes) / 1e9
}

// TotalStorageGB returns total storage in decimal gigabytes
func (s *ClusterStats) TotalStorageGB() float64 {
	return float64(s.TotalStorageBytes) / 1e9
}

// DocumentSizeAnalysis categorizes the average primary document size
type DocumentSizeAnalysis struct {
	AvgSizeKB float64
	Category  string
	Insight   string
}

// AnalyzeDocumentSize derives the average document size from primary storage
// and primary document count. Returns nil when there are no primary documents.
func AnalyzeDocumentSize(stats *ClusterStats) *DocumentSizeAnalysis {
	if stats == nil || stats.PrimaryDocs <= 0 {
		return nil
	}

	avgKB := float64(stats.PrimaryStorageBytes) / float64(stats.PrimaryDocs) / 1024.0

	analysis := &DocumentSizeAnalysis{AvgSizeKB: avgKB}

	switch {
	case avgKB < 1:
		analysis.Category = "Very Small (< 1KB)"
		analysis.Insight = "Very small documents suggest high-volume logging/monitoring data"
	case avgKB < 10:
		analysis.Category = "Small (1-10KB)"
		analysis.Insight = "Small documents typical of metrics, logs, or structured data"
	case avgKB < 100:
		analysis.Category = "Medium (10-100KB)"
		analysis.Insight = "Medium-sized documents common in application data or enriched logs"
	case avgKB < 1000:
		analysis.Category = "Large (100KB-1MB)"
		analysis.Insight = "Large documents may contain rich content, attachments, or complex objects"
	default:
		analysis.Category = "Very Large (> 1MB)"
		analysis.Insight = "Very large documents suggest binary data, images, or complex documents"
	}

	return analysis
}
