package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"avoidxray/internal/models"
)

// FieldChanged is the single change predicate shared by submit-time change
// detection and the review queue's changed-field badges. A field counts as
// changed iff the proposed value is present, non-nil, non-empty and strictly
// different from the original. The two call sites must never disagree.
func FieldChanged(original, proposed interface{}) bool {
	proposedStr, ok := normalizeValue(proposed)
	if !ok {
		return false
	}
	originalStr, ok := normalizeValue(original)
	if !ok {
		return true
	}
	return proposedStr != originalStr
}

// ImageChanged reports whether a proposed image URL differs from the original
func ImageChanged(original, proposed *string) bool {
	if proposed == nil || *proposed == "" {
		return false
	}
	return original == nil || *original != *proposed
}

// ChangedFields returns the sorted set of fields flagged changed between an
// original snapshot and a proposed mapping.
func ChangedFields(original, proposed models.JSONB) []string {
	var changed []string
	for field, value := range proposed {
		if FieldChanged(original[field], value) {
			changed = append(changed, field)
		}
	}
	sort.Strings(changed)
	return changed
}

// ChangesCount derives the number of changes a submission carries, counting
// the proposed image as one change when it differs from the original.
func ChangesCount(sub *models.ModerationSubmission) int {
	count := len(ChangedFields(sub.OriginalData, sub.ProposedData))
	if ImageChanged(sub.OriginalImage, sub.ProposedImage) {
		count++
	}
	return count
}

// normalizeValue collapses the undefined/empty/null conflation into a single
// comparable form: (string value, present). JSONB round-trips numbers as
// float64, so numeric values compare equal to their string submissions.
func normalizeValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed, trimmed != ""
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return fmt.Sprint(value), true
}
