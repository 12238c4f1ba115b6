package docs

import (
	"bufio"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// topicsInReadme returns the topics listed as "* name: description" in readme.md.
func topicsInReadme(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	require.NoError(t, err)
	defer file.Close()

	var topics []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	require.NoError(t, scanner.Err())
	return topics
}

func TestTopics(t *testing.T) {
	listed := topicsInReadme(t)
	all, err := GetAllTopics()
	require.NoError(t, err)

	// every file is listed, every listed topic exists.
	assert.ElementsMatch(t, all, listed)
	for _, topic := range listed {
		content, err := GetTopic(topic)
		require.NoError(t, err, topic)
		assert.NotEmpty(t, content)
	}
}

func TestGetTopic_Unknown(t *testing.T) {
	_, err := GetTopic("nope")
	assert.Error(t, err)
}

func TestGetTopic_All(t *testing.T) {
	content, err := GetTopic("*")
	require.NoError(t, err)
	assert.Contains(t, content, "# Recording transactions")
	assert.Contains(t, content, "# HTTP server")
	assert.NotContains(t, content, "# mm, a personal finance ledger")
}

func TestTitle(t *testing.T) {
	title, err := Title(Index)
	require.NoError(t, err)
	assert.Equal(t, "mm, a personal finance ledger", title)

	all, err := GetAllTopics()
	require.NoError(t, err)
	for _, topic := range all {
		title, err := Title(topic)
		require.NoError(t, err, topic)
		assert.NotEmpty(t, title, topic)
	}
}
