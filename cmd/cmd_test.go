package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChannelSchedule(t *testing.T) {
	for _, tc := range []struct {
		base   int
		levels int
		want   []int
	}{
		{512, 1, []int{512}},
		{512, 4, []int{512, 256, 128, 64}},
		{64, 3, []int{64, 32, 32}},
	} {
		if diff := cmp.Diff(tc.want, channelSchedule(tc.base, tc.levels)); diff != "" {
			t.Errorf("channelSchedule(%d, %d) mismatch (-want +got):\n%s", tc.base, tc.levels, diff)
		}
	}
}

func TestGenerateRejectsBadLevels(t *testing.T) {
	cli := NewCLI()
	cli.SetArgs([]string{"generate", "--levels", "0"})
	if err := cli.Execute(); err == nil {
		t.Error("expected an error for --levels 0")
	}
}
