package workorder

import "strings"

// LocateOrderNumber finds the order number ("Nº 12345") anywhere in the text.
// When no such marker exists it falls back to a bare 5+ digit line among the
// lines just above the first "Cliente:" line.
func LocateOrderNumber(d *Document) *string {
	if m := reOrderNumber.FindStringSubmatch(d.full); m != nil {
		return &m[1]
	}

	for i, l := range d.lines {
		if !strings.HasPrefix(l, LabelClient) {
			continue
		}
		for j := i - 1; j >= 0 && j >= i-orderFallbackWindow; j-- {
			if v := d.lines[j]; reOrderLine.MatchString(v) {
				return &v
			}
		}
		break
	}
	return nil
}

// LocateLabelValue returns the first non-label line within five lines after
// the first line starting with label.
func LocateLabelValue(d *Document, label string) *string {
	return optional(d.scanAfter(hasPrefix(label), valueWindow, notLabel))
}

// LocateClientCode returns the line right after "Cliente:" when it is an
// uppercase alphanumeric code.
func LocateClientCode(d *Document) *string {
	i := d.indexOf(LabelClient)
	if i < 0 || i+1 >= len(d.lines) {
		return nil
	}
	code := d.lines[i+1]
	if !reClientCode.MatchString(code) {
		return nil
	}
	return &code
}

// LocateClientContact finds the client's e-mail and the name printed on the same line
func LocateClientContact(d *Document) (name, email *string) {
	for _, l := range d.lines {
		if !strings.Contains(l, "@") || strings.HasPrefix(strings.ToLower(l), emailPrefix) {
			continue
		}
		addr := reEmail.FindString(l)
		if addr == "" {
			continue
		}
		rest := strings.Trim(strings.ReplaceAll(l, addr, ""), " -")
		rest = reMultiSpace.ReplaceAllString(rest, " ")
		return &rest, &addr
	}
	return nil, nil
}

// LocateAddress returns the first "street - city/UF" style line
func LocateAddress(d *Document) *string {
	return optional(d.firstLine(func(l string) bool {
		return strings.Contains(l, " - ") && reStateCode.MatchString(l)
	}))
}

// LocatePhones returns the first line carrying a "(DD)" area code
func LocatePhones(d *Document) *string {
	return optional(d.firstLine(rePhone.MatchString))
}

// LocateTaxID returns the first CNPJ (DD.DDD.DDD/DDDD-DD) in the text
func LocateTaxID(d *Document) *string {
	if m := reTaxID.FindString(d.full); m != "" {
		return &m
	}
	return nil
}

// LocateRegistrationID returns the first line made only of 10 to 15 digits
func LocateRegistrationID(d *Document) *string {
	return optional(d.firstLine(reRegistration.MatchString))
}

// LocateOdometer reads the value after "KM:". Candidates that look like phone
// numbers are skipped because the phone block often sits next to it.
func LocateOdometer(d *Document) *string {
	return optional(d.scanAfter(hasPrefix(LabelOdometer), valueWindow, func(l string) bool {
		return notLabel(l) && reDigit.MatchString(l) && !rePhone.MatchString(l)
	}))
}

// LocateRemarks returns the line following the general remarks label
func LocateRemarks(d *Document) *string {
	return optional(d.scanAfter(func(l string) bool {
		return strings.HasPrefix(strings.ToLower(l), remarksPrefix)
	}, 1, func(string) bool { return true }))
}
