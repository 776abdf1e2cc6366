package indexing

import "time"

// Section is the top-level documentation area a page belongs to.
type Section string

const (
	SectionGettingStarted Section = "Getting Started"
	SectionCoreConcepts   Section = "Core Concepts"
	SectionGuides         Section = "Guides"
	SectionExamples       Section = "Examples"
	SectionReference      Section = "Reference"
)

// AllSections lists sections in navigation order.
var AllSections = []Section{
	SectionGettingStarted,
	SectionCoreConcepts,
	SectionGuides,
	SectionExamples,
	SectionReference,
}

func (s Section) Valid() bool {
	for _, v := range AllSections {
		if s == v {
			return true
		}
	}
	return false
}

// Category describes what kind of page a document is.
type Category string

const (
	CategoryGuide     Category = "guide"
	CategoryExample   Category = "example"
	CategoryReference Category = "reference"
	CategoryTutorial  Category = "tutorial"
)

var AllCategories = []Category{
	CategoryGuide,
	CategoryExample,
	CategoryReference,
	CategoryTutorial,
}

func (c Category) Valid() bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

var AllDifficulties = []Difficulty{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
}

func (d Difficulty) Valid() bool {
	for _, v := range AllDifficulties {
		if d == v {
			return true
		}
	}
	return false
}

// Heading is a page heading with its anchor id
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// CodeBlock is a language-tagged code sample found in a page
type CodeBlock struct {
	Language string `json:"language"`
	Content  string `json:"content"`
	Title    string `json:"title,omitempty"`
}

// Document is one searchable unit of the corpus
type Document struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Href         string      `json:"href"`
	Excerpt      string      `json:"excerpt"`
	Content      string      `json:"content"`
	Section      Section     `json:"section"`
	Category     Category    `json:"category"`
	Difficulty   Difficulty  `json:"difficulty"`
	Tags         []string    `json:"tags"`
	Keywords     []string    `json:"keywords"`
	Headings     []Heading   `json:"headings"`
	CodeBlocks   []CodeBlock `json:"codeBlocks"`
	LastModified time.Time   `json:"lastModified"`
	Popularity   int         `json:"popularity"`
}

// Extracted holds the fields derived from the text of a single source file.
// Section, category and the rest of the Document come from the file path and
// the extraction run.
type Extracted struct {
	Title      string
	Content    string
	Headings   []Heading
	CodeBlocks []CodeBlock
	Tags       []string
	Keywords   []string
}
