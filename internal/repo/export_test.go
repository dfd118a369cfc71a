package repo

var MapErr = mapErr
