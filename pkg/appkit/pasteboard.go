package appkit

// PasteboardType describes a typed pasteboard payload a view can accept in
// drag-and-drop operations. Values map to the UTI identifiers AppKit
// expects in registerForDraggedTypes:.
type PasteboardType int

const (
	PasteboardTypeString PasteboardType = iota
	PasteboardTypeURL
	PasteboardTypeFileURL
	PasteboardTypePDF
	PasteboardTypePNG
	PasteboardTypeTIFF
	PasteboardTypeRTF
	PasteboardTypeHTML
	PasteboardTypeColor
)

// Identifier returns the native pasteboard type identifier.
func (t PasteboardType) Identifier() string {
	switch t {
	case PasteboardTypeString:
		return "public.utf8-plain-text"
	case PasteboardTypeURL:
		return "public.url"
	case PasteboardTypeFileURL:
		return "public.file-url"
	case PasteboardTypePDF:
		return "com.adobe.pdf"
	case PasteboardTypePNG:
		return "public.png"
	case PasteboardTypeTIFF:
		return "public.tiff"
	case PasteboardTypeRTF:
		return "public.rtf"
	case PasteboardTypeHTML:
		return "public.html"
	case PasteboardTypeColor:
		return "com.apple.cocoa.pasteboard.color"
	default:
		return "public.data"
	}
}

func (t PasteboardType) String() string { return t.Identifier() }
