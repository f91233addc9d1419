// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"fmt"
)

// webhookEventKey builds the KV key for a stored webhook event. Provider event
// identifiers can contain characters that are not valid in NATS KV keys (Zoom
// meeting UUIDs in particular), so the event id portion is base64-encoded.
func webhookEventKey(platform, eventID string) string {
	return fmt.Sprintf("%s/%s", platform, base64.URLEncoding.EncodeToString([]byte(eventID)))
}
