// Command typeface creates, inspects, renders and shares modular typefaces.
//
// Usage:
//
//	typeface [-v] <command> [flags]
//
// Commands:
//
//	new        write an empty typeface document
//	render     render text with a typeface to PNG
//	export     render the A-Z alphabet to PNG
//	sheet      render a labelled contact sheet to PNG
//	inspect    print glyph sizes and used characters
//	community  manage a community font library
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/modular-tools/typeface"
	"github.com/modular-tools/typeface/community"
	"github.com/modular-tools/typeface/persist"
	"github.com/modular-tools/typeface/render"
)

var errUsage = errors.New("usage")

func main() {
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = usage
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	typeface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0), flag.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("typeface: %v", err)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: typeface [-v] <new|render|export|sheet|inspect|community> [flags]\n")
	flag.PrintDefaults()
}

func run(cmd string, args []string) error {
	switch cmd {
	case "new":
		return cmdNew(args)
	case "render":
		return cmdRender(args)
	case "export":
		return cmdExport(args)
	case "sheet":
		return cmdSheet(args)
	case "inspect":
		return cmdInspect(args)
	case "community":
		return cmdCommunity(args)
	default:
		fmt.Fprintf(os.Stderr, "typeface: unknown command %q\n", cmd)
		usage()
		return errUsage
	}
}

func cmdNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	var (
		output      = fs.String("output", "typeface.json", "output document")
		cols        = fs.Int("cols", 4, "columns per glyph")
		rows        = fs.Int("rows", 4, "rows per glyph without proportions")
		proportions = fs.Bool("proportions", false, "size glyphs by class")
		xHeight     = fs.Int("x-height", 2, "x-height in rows")
		ascender    = fs.Int("ascender", 1, "ascender in rows")
		descender   = fs.Int("descender", 1, "descender in rows")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	m := typeface.Metrics{
		Cols:        *cols,
		Rows:        *rows,
		XHeight:     *xHeight,
		Ascender:    *ascender,
		Descender:   *descender,
		Proportions: *proportions,
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if err := persist.SaveFile(*output, typeface.New(m)); err != nil {
		return err
	}
	typeface.Logger().Info("wrote typeface", "path", *output, "cols", m.Cols, "proportions", m.Proportions)
	return nil
}

// imageFlags registers the flags shared by the image commands.
func imageFlags(fs *flag.FlagSet, output string) (input, out *string, scale *float64) {
	input = fs.String("input", "typeface.json", "typeface document")
	out = fs.String("output", output, "output PNG")
	scale = fs.Float64("scale", 1, "device pixel ratio")
	return input, out, scale
}

func cmdRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	input, output, scale := imageFlags(fs, "text.png")
	text := fs.String("text", "MODULAR", "text to render")
	height := fs.Float64("height", 80, "glyph height in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tf, err := persist.LoadFile(*input)
	if err != nil {
		return err
	}
	dc, err := render.Text(tf, *text, render.WithScale(*scale), render.WithGlyphHeight(*height))
	if err != nil {
		return err
	}
	return render.WritePNG(*output, dc)
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	input, output, scale := imageFlags(fs, "alphabet.png")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tf, err := persist.LoadFile(*input)
	if err != nil {
		return err
	}
	dc, err := render.Alphabet(tf, render.WithScale(*scale))
	if err != nil {
		return err
	}
	return render.WritePNG(*output, dc)
}

func cmdSheet(args []string) error {
	fs := flag.NewFlagSet("sheet", flag.ContinueOnError)
	input, output, scale := imageFlags(fs, "sheet.png")
	active := fs.String("active", "A", "character to outline")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tf, err := persist.LoadFile(*input)
	if err != nil {
		return err
	}
	r := []rune(*active + " ")[0]
	dc, err := render.Sheet(tf, r, render.WithScale(*scale))
	if err != nil {
		return err
	}
	return render.WritePNG(*output, dc)
}

func cmdInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	input := fs.String("input", "typeface.json", "typeface document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tf, err := persist.LoadFile(*input)
	if err != nil {
		return err
	}
	for _, r := range typeface.Alphabet {
		g := tf.Glyph(r)
		shapes := 0
		for _, c := range g.Cells() {
			if !c.IsEmpty() {
				shapes++
			}
		}
		fmt.Printf("%c  %dx%d  %-9s %d shapes\n", r, g.Cols(), g.Rows(), typeface.Classify(r), shapes)
	}
	fmt.Printf("used: %s\n", string(tf.Used()))
	return nil
}

func cmdCommunity(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: typeface community <list|publish|upload|like|download|coverage|sample> [flags]")
		return errUsage
	}
	sub, args := args[0], args[1:]
	fs := flag.NewFlagSet("community "+sub, flag.ContinueOnError)
	var (
		storePath = fs.String("store", "community.json", "library file")
		quota     = fs.Int("quota", 5<<20, "library size limit in bytes, 0 for none")
		id        = fs.Int64("id", 0, "font id")
		name      = fs.String("name", "", "font name")
		author    = fs.String("author", "", "font author")
		input     = fs.String("input", "", "typeface document or font file")
		output    = fs.String("output", "", "output file or directory")
		text      = fs.String("text", "", "sample text")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	lib := community.NewLibrary(community.NewFileStore(*storePath, *quota))

	switch sub {
	case "list":
		fonts, err := lib.List()
		if err != nil {
			return err
		}
		for _, f := range fonts {
			kind := "grid"
			if f.IsUpload() {
				kind = "otf"
			}
			fmt.Printf("%d\t%s\t%s\t%s\t%d likes\t%s\n", f.ID, kind, f.Name, f.Author, f.Likes, f.CreatedAt.Format("2006-01-02"))
		}
		return nil
	case "publish":
		tf, err := persist.LoadFile(*input)
		if err != nil {
			return err
		}
		f, err := lib.Publish(*name, *author, tf)
		if err != nil {
			return err
		}
		fmt.Println(f.ID)
		return nil
	case "upload":
		// #nosec G304 -- path is provided by the user
		data, err := os.ReadFile(*input)
		if err != nil {
			return err
		}
		f, err := lib.Upload(*name, *author, data)
		if err != nil {
			return err
		}
		fmt.Println(f.ID)
		return nil
	case "like":
		f, err := lib.Like(*id)
		if err != nil {
			return err
		}
		fmt.Println(f.Likes)
		return nil
	case "download":
		filename, data, err := lib.Download(*id)
		if err != nil {
			return err
		}
		path := filepath.Join(*output, filename)
		if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- exported font
			return err
		}
		fmt.Println(path)
		return nil
	case "coverage":
		runes, err := lib.Coverage(*id)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d/%d)\n", string(runes), len(runes), len([]rune(typeface.Alphabet)))
		return nil
	case "sample":
		dc, err := lib.Sample(*id, *text)
		if err != nil {
			return err
		}
		out := *output
		if out == "" {
			out = "sample-" + strconv.FormatInt(*id, 10) + ".png"
		}
		return render.WritePNG(out, dc)
	default:
		fmt.Fprintf(os.Stderr, "typeface: unknown community command %q\n", sub)
		return errUsage
	}
}
