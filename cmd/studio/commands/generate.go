package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shouni/hyperreal-studio/pkg/domain"
	"github.com/shouni/hyperreal-studio/pkg/studio"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	prompt string
	refs   []string
	aspect string
	size   string
	style  string
	out    string
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one image and write it to a file",
	Example: `  studio generate --prompt "a neon city at night" --style Cyberpunk --aspect 16:9
  studio generate --ref ./face.png --ref gs://my-bucket/pose.jpg --ref https://example.com/bg.jpg --out result.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		settings, err := genOpts.settings()
		if err != nil {
			return err
		}

		gen, err := newGenerator(ctx, cfg)
		if err != nil {
			return err
		}
		reader, closeReader, err := newInputReader(ctx, genOpts.refs)
		if err != nil {
			return err
		}
		defer closeReader()
		loader, err := newLoader(cfg, reader)
		if err != nil {
			return err
		}
		s, err := studio.New(gen)
		if err != nil {
			return err
		}

		s.SetPrompt(genOpts.prompt)
		s.UpdateSettings(settings)
		for _, ref := range genOpts.refs {
			r, err := loader.Load(ctx, ref)
			if err != nil {
				return err
			}
			s.AddReference(r)
		}

		img, err := s.Generate(ctx)
		if err != nil {
			return errors.New(studio.UserMessage(err))
		}

		path := genOpts.out
		if path == "" {
			path = defaultOutputPath(img)
		}
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return fmt.Errorf("画像の保存に失敗しました: %w", err)
		}
		slog.InfoContext(ctx, "画像を保存しました", "path", path, "width", img.Width, "height", img.Height)
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genOpts.prompt, "prompt", "p", "", "prompt text")
	f.StringArrayVarP(&genOpts.refs, "ref", "r", nil, "reference image: local path, gs:// / s3:// URI or http(s) URL (repeatable)")
	f.StringVar(&genOpts.aspect, "aspect", string(domain.AspectRatio1x1), "aspect ratio (1:1, 16:9, 9:16, 3:4, 4:3)")
	f.StringVar(&genOpts.size, "size", string(domain.ImageSize4K), "image size (1K, 2K, 4K)")
	f.StringVar(&genOpts.style, "style", string(domain.DefaultStyle), "style preset")
	f.StringVarP(&genOpts.out, "out", "o", "", "output file (default: hyperreal-<timestamp>.<ext>)")
}

func (o generateOptions) settings() (domain.GenerationSettings, error) {
	s := domain.GenerationSettings{
		AspectRatio: domain.AspectRatio(o.aspect),
		ImageSize:   domain.ImageSize(strings.ToUpper(o.size)),
		Style:       domain.Style(o.style),
	}
	if err := s.Validate(); err != nil {
		return domain.GenerationSettings{}, err
	}
	return s, nil
}

func defaultOutputPath(img *domain.GeneratedImage) string {
	ext := ".png"
	switch img.MimeType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}
	return fmt.Sprintf("hyperreal-%s%s", img.CreatedAt().Format("20060102-150405"), ext)
}
