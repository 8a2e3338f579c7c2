package omnifocus

// JavaScript for Automation sources run through osascript. Each script
// receives one JSON argument and returns JSON (or nothing).

// scriptPrelude is prepended to every script.
const scriptPrelude = `
var SEP = "////";

function app() { return Application("OmniFocus"); }

function splitPath(path) {
  return path === "" ? [] : path.split(SEP);
}

function getFolder(container, names) {
  var f = container;
  for (var i = 0; i < names.length; i++) {
    var matches = f.folders.whose({name: names[i]})();
    if (matches.length === 0) { return null; }
    f = matches[0];
  }
  return f;
}
`

const scriptIsRunning = `
function run(argv) {
  return JSON.stringify({running: app().running()});
}
`

const scriptSnapshot = `
function walk(folder, prefix, out) {
  folder.projects().forEach(function (p) {
    out.projects.push({id: p.id(), name: p.name(), note: p.note() || "", folder: prefix});
  });
  folder.folders().forEach(function (f) {
    var path = prefix === "" ? f.name() : prefix + SEP + f.name();
    out.folders.push({id: f.id(), name: f.name(), path: path});
    walk(f, path, out);
  });
}

function run(argv) {
  var args = JSON.parse(argv[0]);
  var out = {projects: [], folders: []};
  var root = getFolder(app().defaultDocument, splitPath(args.root));
  if (root !== null) { walk(root, "", out); }
  return JSON.stringify(out);
}
`

const scriptDeleteProject = `
function run(argv) {
  var args = JSON.parse(argv[0]);
  var a = app();
  a.delete(a.defaultDocument.flattenedProjects.byId(args.id));
}
`

const scriptDeleteFolder = `
function run(argv) {
  var args = JSON.parse(argv[0]);
  var a = app();
  a.delete(a.defaultDocument.flattenedFolders.byId(args.id));
}
`

const scriptUpdateProject = `
function run(argv) {
  var args = JSON.parse(argv[0]);
  var p = app().defaultDocument.flattenedProjects.byId(args.id);
  p.name = args.name;
  p.note = args.note;
}
`

const scriptCreateProject = `
function run(argv) {
  var args = JSON.parse(argv[0]);
  var a = app();
  var container = a.defaultDocument;
  splitPath(args.path).forEach(function (name) {
    var matches = container.folders.whose({name: name})();
    if (matches.length === 0) {
      var f = a.Folder({name: name});
      container.folders.push(f);
      container = f;
    } else {
      container = matches[0];
    }
  });
  var p = a.Project({name: args.name, note: args.note});
  container.projects.push(p);
  return JSON.stringify({id: p.id()});
}
`

const scriptSynchronize = `
function run(argv) {
  app().defaultDocument.synchronize();
}
`
