// SPDX-License-Identifier: MPL-2.0

package groups

import "strconv"

const (
	kilobyte int64 = 1024
	megabyte       = 1024 * kilobyte
	gigabyte       = 1024 * megabyte
)

// FormatSize renders a byte count with the largest unit it reaches, using
// truncating division: 1023 is "1023 bytes", 1535 is "1 KB". Negative counts
// are rendered in bytes.
func FormatSize(bytes int64) string {
	switch {
	case bytes < kilobyte:
		return strconv.FormatInt(bytes, 10) + " bytes"
	case bytes < megabyte:
		return strconv.FormatInt(bytes/kilobyte, 10) + " KB"
	case bytes < gigabyte:
		return strconv.FormatInt(bytes/megabyte, 10) + " MB"
	default:
		return strconv.FormatInt(bytes/gigabyte, 10) + " GB"
	}
}
