// Package project drives the translation workflow of a source tree: one
// extracted template plus a catalog per locale, described by a YAML manifest.
package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/potools/pocat"
	"github.com/potools/pocat/extract"
	"github.com/potools/pocat/mofile"
	"github.com/potools/pocat/pofile"
)

// ErrNoFilename is returned when a save needs a path but neither the
// catalog nor the project configuration provides one.
var ErrNoFilename = errors.New("no filename")

// DefaultManifest is the manifest filename Load looks for.
const DefaultManifest = "pocat.yaml"

// Config holds the project settings. The zero value is usable; NewProject
// fills in every unset field.
type Config struct {
	// SourceDir is the root of the Go tree to extract from.
	SourceDir string `yaml:"source_dir"`
	// TemplateFile is the POT path relative to the project root.
	TemplateFile string `yaml:"template_file"`
	// CatalogFile is the per-locale catalog path pattern; {locale} and
	// {domain} are substituted.
	CatalogFile string `yaml:"catalog_file"`
	Domain      string `yaml:"domain"`

	Project          string `yaml:"project"`
	Version          string `yaml:"version"`
	CopyrightHolder  string `yaml:"copyright_holder"`
	MsgidBugsAddress string `yaml:"msgid_bugs_address"`

	Locales     []string `yaml:"locales"`
	Keywords    []string `yaml:"keywords"`
	CommentTags []string `yaml:"comment_tags"`

	Logger   *zerolog.Logger `yaml:"-"`
	Codec    Codec           `yaml:"-"`
	Compiler Compiler        `yaml:"-"`
}

// Project ties extraction, catalogs and compiled output together.
type Project struct {
	Config   Config
	Root     string
	log      zerolog.Logger
	codec    Codec
	compiler Compiler
	keywords []*extract.Keyword
}

// NewProject builds a project rooted at root. Missing configuration falls
// back to the conventional gettext layout.
func NewProject(root string, config Config) (*Project, error) {
	if config.SourceDir == "" {
		config.SourceDir = "."
	}
	if config.Domain == "" {
		config.Domain = "messages"
	}
	if config.TemplateFile == "" {
		config.TemplateFile = filepath.Join("locale", config.Domain+".pot")
	}
	if config.CatalogFile == "" {
		config.CatalogFile = filepath.Join("locale", "{locale}", "LC_MESSAGES", "{domain}.po")
	}
	if config.Codec == nil {
		config.Codec = POCodec{}
	}
	if config.Compiler == nil {
		config.Compiler = MOCompiler{}
	}
	log := zerolog.Nop()
	if config.Logger != nil {
		log = *config.Logger
	}

	keywords := make([]*extract.Keyword, 0, len(config.Keywords))
	for _, spec := range config.Keywords {
		k, err := extract.ParseKeyword(spec)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", spec, err)
		}
		keywords = append(keywords, k)
	}

	return &Project{
		Config:   config,
		Root:     root,
		log:      log,
		codec:    config.Codec,
		compiler: config.Compiler,
		keywords: keywords,
	}, nil
}

// Load reads the YAML manifest at root/pocat.yaml and builds the project.
func Load(root string, logger *zerolog.Logger) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(root, DefaultManifest))
	if err != nil {
		return nil, err
	}
	var config Config
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	config.Logger = logger
	return NewProject(root, config)
}

// WriteManifest saves the project configuration as root/pocat.yaml.
func (p *Project) WriteManifest() error {
	data, err := yaml.Marshal(p.Config)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(p.Root, DefaultManifest), data, 0644)
}

// TemplatePath is the absolute POT path.
func (p *Project) TemplatePath() string {
	return filepath.Join(p.Root, p.Config.TemplateFile)
}

// CatalogPath is the absolute catalog path for a locale.
func (p *Project) CatalogPath(locale string) string {
	path := strings.ReplaceAll(p.Config.CatalogFile, "{locale}", locale)
	path = strings.ReplaceAll(path, "{domain}", p.Config.Domain)
	return filepath.Join(p.Root, path)
}

// CompiledPath is the absolute compiled-output path for a locale, derived
// from the catalog path by swapping the codec extension for the compiler's.
func (p *Project) CompiledPath(locale string) string {
	path := p.CatalogPath(locale)
	return strings.TrimSuffix(path, p.codec.Ext()) + p.compiler.Ext()
}

func (p *Project) catalogConfig(locale string) pocat.Config {
	return pocat.Config{
		Locale:           locale,
		Domain:           p.Config.Domain,
		Project:          p.Config.Project,
		Version:          p.Config.Version,
		CopyrightHolder:  p.Config.CopyrightHolder,
		MsgidBugsAddress: p.Config.MsgidBugsAddress,
	}
}

// ExtractTemplate scans the source tree and writes a fresh template. When a
// previous template exists on disk, its catalog-level metadata is carried
// over and the id differences against it are classified on the result.
func (p *Project) ExtractTemplate() (*pocat.Catalog, error) {
	opts := extract.Options{
		Keywords:    p.keywords,
		CommentTags: p.Config.CommentTags,
	}
	dir := filepath.Join(p.Root, p.Config.SourceDir)
	template, err := extract.Template(dir, opts, p.catalogConfig(""))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", dir, err)
	}
	template.Filename = p.TemplatePath()
	if _, err := os.Stat(template.Filename); err == nil {
		old, err := p.load(template.Filename)
		if err != nil {
			return nil, err
		}
		template.Difference(old)
		template.PropertiesOf(old)
	}
	p.log.Info().Str("template", p.Config.TemplateFile).Int("messages", template.Len()).Msg("extracted template")
	return template, p.Save(template)
}

// LoadTemplate reads the current template from disk.
func (p *Project) LoadTemplate() (*pocat.Catalog, error) {
	return p.load(p.TemplatePath())
}

// LoadCatalog reads one locale catalog from disk.
func (p *Project) LoadCatalog(locale string) (*pocat.Catalog, error) {
	c, err := p.load(p.CatalogPath(locale))
	if err != nil {
		return nil, err
	}
	// A Language header in the file wins; binding the locale again would
	// discard a parsed Plural-Forms override.
	if c.Locale() == "" {
		c.SetLocale(locale)
	}
	return c, nil
}

// LoadAll reads every configured locale catalog.
func (p *Project) LoadAll() ([]*pocat.Catalog, error) {
	catalogs := make([]*pocat.Catalog, 0, len(p.Config.Locales))
	for _, locale := range p.Config.Locales {
		c, err := p.LoadCatalog(locale)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, c)
	}
	return catalogs, nil
}

func (p *Project) load(path string) (*pocat.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := p.codec.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	c.Filename = path
	return c, nil
}

// Save writes a catalog back to its recorded filename.
func (p *Project) Save(c *pocat.Catalog) error {
	if c.Filename == "" {
		return ErrNoFilename
	}
	if err := os.MkdirAll(filepath.Dir(c.Filename), 0755); err != nil {
		return err
	}
	f, err := os.Create(c.Filename)
	if err != nil {
		return err
	}
	if err := p.codec.Write(f, c); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", c.Filename, err)
	}
	return f.Close()
}

// SaveAll writes every given catalog.
func (p *Project) SaveAll(catalogs []*pocat.Catalog) error {
	for _, c := range catalogs {
		if err := p.Save(c); err != nil {
			return err
		}
	}
	return nil
}

// Init creates the template and one untranslated catalog per configured
// locale. Existing catalogs are left alone.
func (p *Project) Init() error {
	template, err := p.ExtractTemplate()
	if err != nil {
		return err
	}
	for _, locale := range p.Config.Locales {
		path := p.CatalogPath(locale)
		if _, err := os.Stat(path); err == nil {
			p.log.Debug().Str("locale", locale).Msg("catalog exists, skipping")
			continue
		}
		c := pocat.NewCatalog(p.catalogConfig(locale))
		c.Update(template, nil)
		c.Fuzzy = true
		c.Filename = path
		if err := p.Save(c); err != nil {
			return err
		}
		p.log.Info().Str("locale", locale).Str("file", path).Msg("created catalog")
	}
	return nil
}

// UpdateAll re-extracts the template and reconciles every locale catalog
// against it.
func (p *Project) UpdateAll(opts *pocat.UpdateOptions) error {
	template, err := p.ExtractTemplate()
	if err != nil {
		return err
	}
	catalogs, err := p.LoadAll()
	if err != nil {
		return err
	}
	for _, c := range catalogs {
		c.Update(template, opts)
		p.log.Info().
			Str("file", c.Filename).
			Int("messages", c.Len()).
			Int("obsolete", c.Obsolete.Len()).
			Msg("updated catalog")
	}
	return p.SaveAll(catalogs)
}

// CompileAll writes the runtime form of every locale catalog.
func (p *Project) CompileAll() error {
	for _, locale := range p.Config.Locales {
		c, err := p.LoadCatalog(locale)
		if err != nil {
			return err
		}
		path := p.CompiledPath(locale)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := p.compiler.Compile(f, c); err != nil {
			f.Close()
			return fmt.Errorf("compile %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		p.log.Info().Str("locale", locale).Str("file", path).Msg("compiled catalog")
	}
	return nil
}

// LocaleStats summarises translation progress for one catalog.
type LocaleStats struct {
	Locale     string
	Total      int
	Translated int
	Fuzzy      int
	Obsolete   int
}

// Percent is the translated share, 100 for an empty catalog.
func (s LocaleStats) Percent() float64 {
	if s.Total == 0 {
		return 100
	}
	return float64(s.Translated) * 100 / float64(s.Total)
}

// Stats reads every locale catalog and reports its progress.
func (p *Project) Stats() ([]LocaleStats, error) {
	stats := make([]LocaleStats, 0, len(p.Config.Locales))
	for _, locale := range p.Config.Locales {
		c, err := p.LoadCatalog(locale)
		if err != nil {
			return nil, err
		}
		s := LocaleStats{Locale: locale, Obsolete: c.Obsolete.Len()}
		for _, m := range c.Messages() {
			s.Total++
			switch {
			case m.Fuzzy():
				s.Fuzzy++
			case m.Translated():
				s.Translated++
			}
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// POCodec is the default Codec, backed by the pofile package.
type POCodec struct{}

func (POCodec) Read(r io.Reader) (*pocat.Catalog, error)  { return pofile.Read(r) }
func (POCodec) Write(w io.Writer, c *pocat.Catalog) error { return pofile.Write(w, c) }
func (POCodec) Ext() string                               { return ".po" }

// MOCompiler is the default Compiler, backed by the mofile package.
type MOCompiler struct{}

func (MOCompiler) Compile(w io.Writer, c *pocat.Catalog) error { return mofile.Write(w, c) }
func (MOCompiler) Ext() string                                 { return ".mo" }
