// Package ros implements the rosbag container source: opening a bag,
// and iterating its serialized records filtered by declared message
// type.
package ros

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/edaniels/gobag/rosbag"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// ReadBag reads the contents of a rosbag into a gobag data structure.
func ReadBag(filename string) (*rosbag.RosBag, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	defer utils.UncheckedErrorFunc(f.Close)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open input file")
	}

	rb := rosbag.NewRosBag()

	if err := rb.Read(f); err != nil {
		return nil, errors.Wrapf(err, "unable to create ros bag, error")
	}

	return rb, nil
}

// TopicsForType returns the topics in the bag whose connection declares
// the given message type (e.g. "sensor_msgs/PointCloud2").
func TopicsForType(rb *rosbag.RosBag, messageType string) []string {
	var topics []string
	for _, connection := range rb.Connections {
		if connection.ConnectionType == messageType {
			topics = append(topics, connection.HeaderTopic)
		}
	}
	return topics
}

// MessagesForType extracts every record in the bag declaring the given
// message type, in stored order, as raw JSON documents.
func MessagesForType(rb *rosbag.RosBag, messageType string) ([][]byte, error) {
	topics := TopicsForType(rb, messageType)
	if len(topics) == 0 {
		return nil, nil
	}
	topicSet := make(map[string]bool, len(topics))
	for _, topic := range topics {
		topicSet[topic] = true
	}

	if err := rb.ParseTopicsToJSON(
		"",
		func(int64) bool { return true },
		func(t string) bool { return topicSet[t] },
		false,
	); err != nil {
		return nil, errors.Wrapf(err, "error while parsing bag to JSON")
	}

	var all [][]byte
	seen := make(map[string]bool, len(topics))
	for _, topic := range topics {
		key := jsonTopicKey(topic)
		if seen[key] {
			continue
		}
		seen[key] = true
		msgs := rb.TopicsAsJSON[key]
		if msgs == nil {
			continue
		}
		for {
			data, err := msgs.ReadBytes('\n')
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, err
			}
			all = append(all, bytes.TrimRight(data, "\n"))
		}
	}

	return all, nil
}

// jsonTopicKey mirrors gobag's TopicsAsJSON key derivation: leading
// slash stripped, inner slashes replaced, lowercased.
func jsonTopicKey(topic string) string {
	topic = strings.TrimPrefix(topic, "/")
	return strings.ToLower(strings.ReplaceAll(topic, "/", "_"))
}
