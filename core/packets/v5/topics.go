// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"
	"strings"

	"github.com/absmach/mqttwire/core/packets"
)

// validTopicName checks a topic name used for publishing. Wildcards are
// not allowed.
func validTopicName(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: empty topic name", packets.ErrInvalidTopic)
	}
	if strings.ContainsAny(topic, "+#") {
		return fmt.Errorf("%w: wildcard in topic name %q", packets.ErrInvalidTopic, topic)
	}
	return nil
}

// validTopicFilter checks the placement of wildcards in a topic filter:
// '+' must occupy a whole level and '#' must occupy the whole last level.
func validTopicFilter(filter string) error {
	if filter == "" {
		return fmt.Errorf("%w: empty topic filter", packets.ErrInvalidTopic)
	}
	levels := strings.Split(filter, "/")
	for i, level := range levels {
		switch {
		case level == "#" && i != len(levels)-1:
			return fmt.Errorf("%w: '#' not last in %q", packets.ErrInvalidTopic, filter)
		case level != "#" && level != "+" && strings.ContainsAny(level, "+#"):
			return fmt.Errorf("%w: wildcard inside level of %q", packets.ErrInvalidTopic, filter)
		}
	}
	return nil
}
