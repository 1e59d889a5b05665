package certificate

const documentHead = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Certificate</title>
  <style>
    @page { size: A4; margin: 20mm; }
    html, body { margin:0; padding:0; }
    * { -webkit-print-color-adjust: exact; print-color-adjust: exact; }
    img { max-width: 100%; height: auto; }

    /* links never look like links in the PDF */
    a {
      color: inherit !important;
      text-decoration: none !important;
      pointer-events: none !important;
    }
  </style>
</head>
<body>
`

const documentTail = `
</body>
</html>`

// Wrap embeds fragment verbatim in a print-oriented A4 document.
func Wrap(fragment string) string {
	return documentHead + fragment + documentTail
}
