package render

import (
	"html/template"
	"io"
	"strings"

	"github.com/unicorn-byte/emergency-card/internal/disclosure"
)

// The responder card page, ported from the product's original mobile-first
// layout. It renders only the disclosed view, so hidden fields cannot
// appear regardless of what the template does.
var cardPage = template.Must(template.New("card").Funcs(template.FuncMap{
	"join": func(values *[]string) string {
		if values == nil || len(*values) == 0 {
			return "None"
		}
		return strings.Join(*values, ", ")
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Emergency Medical Card</title>
<style>
body {
    font-family: 'Segoe UI', Arial, sans-serif;
    background: linear-gradient(135deg, #667eea, #764ba2);
    min-height: 100vh;
    display: flex;
    align-items: center;
    justify-content: center;
    padding: 20px;
}
.card {
    background: #fff;
    width: 100%;
    max-width: 420px;
    border-radius: 22px;
    box-shadow: 0 25px 60px rgba(0,0,0,0.35);
    overflow: hidden;
}
.header {
    background: linear-gradient(135deg, #ff416c, #ff4b2b);
    color: white;
    text-align: center;
    padding: 25px;
}
.header h1 { font-size: 22px; }
.content { padding: 22px; }
.section { margin-bottom: 18px; }
.section-title { font-weight: 700; margin-bottom: 8px; }
.info {
    background: #f7f9fc;
    padding: 10px;
    border-radius: 8px;
    margin-bottom: 6px;
}
.blood {
    background: #e63946;
    color: white;
    font-size: 26px;
    font-weight: bold;
    padding: 8px 22px;
    border-radius: 30px;
    display: inline-block;
}
.donor {
    background: #28a745;
    color: white;
    font-weight: bold;
    padding: 6px 16px;
    border-radius: 20px;
    display: inline-block;
}
.contact {
    background: #e8f5e9;
    padding: 12px;
    border-radius: 10px;
    border-left: 5px solid #28a745;
    margin-bottom: 10px;
}
.call {
    display: block;
    margin-top: 8px;
    background: #28a745;
    color: white;
    padding: 10px;
    text-align: center;
    border-radius: 8px;
    text-decoration: none;
    font-weight: bold;
}
.footer {
    text-align: center;
    font-size: 12px;
    color: #777;
    padding: 12px;
    background: #fafafa;
}
</style>
</head>
<body>
<div class="card">
    <div class="header">
        <h1>EMERGENCY MEDICAL INFO</h1>
        <p>For first responders</p>
    </div>
    <div class="content">
        <div class="section">
            <div class="section-title">Personal Details</div>
            {{if .FullName}}<div class="info">Name: {{.FullName}}</div>{{end}}
            {{if .Age}}<div class="info">Age: {{.Age}}</div>{{end}}
        </div>
        {{if .BloodGroup}}
        <div class="section">
            <div class="section-title">Blood Group</div>
            <div style="text-align:center;">
                <span class="blood">{{.BloodGroup}}</span>
            </div>
        </div>
        {{end}}
        {{if .Allergies}}
        <div class="section">
            <div class="section-title">Allergies</div>
            <div>{{join .Allergies}}</div>
        </div>
        {{end}}
        {{if .MedicalConditions}}
        <div class="section">
            <div class="section-title">Medical Conditions</div>
            <div>{{join .MedicalConditions}}</div>
        </div>
        {{end}}
        {{if .Medications}}
        <div class="section">
            <div class="section-title">Medications</div>
            <div>{{join .Medications}}</div>
        </div>
        {{end}}
        {{if .OrganDonor}}
        <div class="section" style="text-align:center;">
            <span class="donor">ORGAN DONOR</span>
        </div>
        {{end}}
        {{if .EmergencyContacts}}
        <div class="section">
            <div class="section-title">Emergency Contacts</div>
            {{range .EmergencyContacts}}
            <div class="contact"><b>{{.Name}}</b> ({{.Relation}})<a class="call" href="tel:{{.Phone}}">Call {{.Phone}}</a></div>
            {{end}}
        </div>
        {{end}}
    </div>
    <div class="footer">
        Emergency Info Card &bull; Powered by QR Access
    </div>
</div>
</body>
</html>
`))

// CardHTML writes the responder card page for a disclosed view.
func CardHTML(w io.Writer, view disclosure.View) error {
	return cardPage.Execute(w, view)
}
