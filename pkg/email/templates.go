package email

import "html/template"

var moderationRequestTemplate = template.Must(template.New("moderation").Parse(`
<h2>Profile Verification Request</h2>
<p>User: <strong>{{.Username}}</strong> (ID: {{.UserID}})</p>
<h3>Photography Type</h3>
<p>{{if .Snapshot.PhotographyType}}{{.Snapshot.PhotographyType}}{{else}}Not specified{{end}}</p>
<h3>Equipment</h3>
<p>{{if .Snapshot.Equipment}}{{.Snapshot.Equipment}}{{else}}Not specified{{end}}</p>
<h3>Bio</h3>
<p>{{if .Snapshot.Bio}}{{.Snapshot.Bio}}{{else}}Not provided{{end}}</p>
<h3>Social Links</h3>
<ul>
{{if .Snapshot.Socials.Instagram}}<li>Instagram: @{{.Snapshot.Socials.Instagram}}</li>{{end}}
{{if .Snapshot.Socials.Twitter}}<li>Twitter/X: @{{.Snapshot.Socials.Twitter}}</li>{{end}}
{{if .Snapshot.Socials.Flickr}}<li>Flickr: {{.Snapshot.Socials.Flickr}}</li>{{end}}
{{if .Snapshot.Socials.Px500}}<li>500px: {{.Snapshot.Socials.Px500}}</li>{{end}}
{{if .Snapshot.Socials.Website}}<li>Website: {{.Snapshot.Socials.Website}}</li>{{end}}
</ul>
<p>Approve or reject this profile from the moderation panel.</p>
`))

var profileApprovedTemplate = template.Must(template.New("approved").Parse(`
<h2>Profile Approved</h2>
<p>Hi {{.DisplayName}},</p>
<p>Your photography profile has been verified and is now visible to other users!</p>
`))

var profileRejectedTemplate = template.Must(template.New("rejected").Parse(`
<h2>Profile Needs Revision</h2>
<p>Hi {{.DisplayName}},</p>
<p>Your photography profile was not approved. Please edit your profile and submit it again.</p>
`))
