// cmd_generate.go - the generate subcommand: run one forward pass of a
// randomly initialized synthesis network and save the image.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/forgeml/stylegen/imageproc"
	"github.com/forgeml/stylegen/ml"
	"github.com/forgeml/stylegen/nn"
	"github.com/forgeml/stylegen/stylegan"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an image from a random style vector",
		Args:  cobra.NoArgs,
		RunE:  generateHandler,
	}
	cmd.Flags().Int("levels", 4, "Number of resolution levels (output is 4*2^(levels-1) pixels)")
	cmd.Flags().Int("style-dim", 512, "Style vector dimension")
	cmd.Flags().Int("base-channels", 512, "Channel count of the 4x4 stage")
	cmd.Flags().Uint64("seed", 0, "Seed for parameters, style and noise")
	cmd.Flags().StringP("output", "o", "out.png", "Output PNG path")
	return cmd
}

// channelSchedule halves the width per level, never below 32 channels.
func channelSchedule(base, levels int) []int {
	channels := make([]int, levels)
	for i := range channels {
		c := base >> i
		if c < 32 {
			c = 32
		}
		channels[i] = c
	}
	return channels
}

func generateHandler(cmd *cobra.Command, _ []string) error {
	levels, _ := cmd.Flags().GetInt("levels")
	styleDim, _ := cmd.Flags().GetInt("style-dim")
	base, _ := cmd.Flags().GetInt("base-channels")
	seed, _ := cmd.Flags().GetUint64("seed")
	output, _ := cmd.Flags().GetString("output")

	if levels < 1 {
		return fmt.Errorf("levels must be at least 1, got %d", levels)
	}

	gen, err := stylegan.New(stylegan.Config{
		StyleDim: styleDim,
		Channels: channelSchedule(base, levels),
	}, nn.NewGaussianSource(seed))
	if err != nil {
		return err
	}

	slog.Info("initializing generator", "levels", levels, "resolution", gen.Resolution(), "seed", seed)
	params := gen.Init(seed)

	style := ml.New(1, styleDim)
	nn.NewGaussianSource(seed + 1).Fill(style.Data)

	img := gen.Forward(params, style)

	res := gen.Resolution()
	sample := ml.FromSlice(img.Data[:3*res*res], 3, res, res)
	if err := imageproc.Save(sample, output); err != nil {
		return err
	}

	slog.Info("image written", "path", output, "resolution", res)
	return nil
}
