// Package models holds the Vimeo API model types and typed request
// constructors for them.
//
// Every model implements mapping.Mappable and decodes from the whole
// response object. Lists decode from the "data" array of the paging
// envelope. Registering the models makes that lookup a table hit:
//
//	table := mapping.NewTable()
//	models.Register(table)
//
//	resp, err := client.Fetch(c, ctx, models.StaffPicksRequest()).Unwrap()
package models
